package http

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/pkg/jwt"
)

// Locals keys con la identidad del token.
const (
	LocalUserID      = "user_id"
	LocalName        = "name"
	LocalRole        = "role"
	LocalPermissions = "permissions"
)

// AuthMiddleware valida el Bearer Token JWT y deja la identidad en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return respondError(c, fiber.StatusUnauthorized, CodeUnauthorized, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondError(c, fiber.StatusUnauthorized, CodeUnauthorized, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return respondError(c, fiber.StatusUnauthorized, CodeUnauthorized, "token vacío")
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || id.UserID == "" {
			return respondError(c, fiber.StatusUnauthorized, CodeUnauthorized, "token inválido o expirado")
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalName, id.Name)
		c.Locals(LocalRole, id.Role)
		c.Locals(LocalPermissions, id.Permissions)
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetPermissions devuelve los permisos del token.
func GetPermissions(c *fiber.Ctx) []string {
	p, _ := c.Locals(LocalPermissions).([]string)
	return p
}

// GetActor construye el actor que se pasa a los casos de uso.
func GetActor(c *fiber.Ctx) entity.Actor {
	return entity.Actor{ID: GetUserID(c), Name: localString(c, LocalName)}
}

// RequireRole deja pasar solo a los roles indicados. Usar después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return respondError(c, fiber.StatusUnauthorized, CodeUnauthorized, "el token no incluye rol")
		}
		if !slices.Contains(roles, role) {
			return respondError(c, fiber.StatusForbidden, CodeForbidden, "rol sin acceso a este recurso")
		}
		return c.Next()
	}
}

// RequirePermission exige un permiso "accion:recurso"; el rol admin los tiene todos.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetRole(c) == entity.RoleAdmin || slices.Contains(GetPermissions(c), permission) {
			return c.Next()
		}
		return respondError(c, fiber.StatusForbidden, CodeForbidden, "permiso requerido: "+permission)
	}
}
