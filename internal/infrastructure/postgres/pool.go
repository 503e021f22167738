package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-inventario/pkg/config"
)

// NewPool abre el pool de PostgreSQL y verifica la conexión con Ping.
// NUMERIC se mapea a decimal.Decimal en todas las conexiones del pool.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	// Contenedores sin IPv6: preferir la dirección IPv4 del host si existe.
	poolConfig.ConnConfig.DialFunc = dialPreferIPv4

	poolConfig.MaxConns = 20
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	poolConfig.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

func dialPreferIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	if ip := lookupIPv4(ctx, host); ip != "" {
		return dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
	}
	return dialer.DialContext(ctx, network, addr)
}

// lookupIPv4 devuelve la primera IPv4 del host, o "" si no tiene.
func lookupIPv4(ctx context.Context, host string) string {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host
		}
		return ""
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil || len(ips) == 0 {
		return ""
	}
	return ips[0].String()
}
