package models

// Entity describes how a record maps onto its relational table.
// The identity column is always "id" and is generated by the database.
type Entity interface {
	TableName() string
	// Columns lists the mutable columns in insert/update order, without "id".
	Columns() []string
	// Values returns the column values in Columns order.
	Values() []any
	GetID() int64
	SetID(id int64)
}
