// File: internal/model/book.go
package model

import "time"

type Book struct {
	ID              int        `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Author          string     `db:"author" json:"author"`
	ISBN            string     `db:"isbn" json:"isbn"`
	PublicationDate *time.Time `db:"publication_date" json:"publication_date"`
	Quantity        int        `db:"quantity" json:"quantity"`
	Available       int        `db:"available" json:"available"`
	CategoryID      *int       `db:"category_id" json:"category_id"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// IsBorrowable 是否還有可借出的副本
func (b *Book) IsBorrowable() bool {
	return b.Available > 0
}

type Category struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	BookCount   int       `db:"book_count" json:"book_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
