package repository

// Repositories agrupa los repositorios atados a un mismo ámbito transaccional.
// Todo lo escrito a través de una instancia se confirma o se descarta junto.
type Repositories interface {
	Products() ProductRepository
	Movements() StockMovementRepository
	Purchases() PurchaseRepository
	Sales() SaleRepository
	Suppliers() SupplierRepository
	Customers() CustomerRepository
}
