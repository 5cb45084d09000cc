package gateway

import (
	"context"
	"fmt"
	"net/url"
)

// BooksAPI covers the backend's /books surface.
type BooksAPI struct {
	client *Client
}

// Book mirrors the backend's book resource.
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
	Category        string `json:"category,omitempty"`
	PublishedDate   string `json:"publishedDate,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// BookInput is the create/update payload.
type BookInput struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	TotalCopies   int    `json:"totalCopies"`
	Category      string `json:"category,omitempty"`
	PublishedDate string `json:"publishedDate,omitempty"`
}

// Availability reports whether a book can be loaned right now.
type Availability struct {
	Available       bool `json:"available"`
	AvailableCopies int  `json:"availableCopies"`
}

func (b *BooksAPI) List(ctx context.Context) ([]Book, error) {
	var books []Book
	err := b.client.get(ctx, "/books", nil, &books)
	return books, err
}

func (b *BooksAPI) Get(ctx context.Context, id int64) (Book, error) {
	var book Book
	err := b.client.get(ctx, fmt.Sprintf("/books/%d", id), nil, &book)
	return book, err
}

func (b *BooksAPI) Search(ctx context.Context, keyword string) ([]Book, error) {
	var books []Book
	err := b.client.get(ctx, "/books/search", url.Values{"keyword": {keyword}}, &books)
	return books, err
}

func (b *BooksAPI) Create(ctx context.Context, in BookInput) (Book, error) {
	var book Book
	err := b.client.post(ctx, "/books", in, &book)
	return book, err
}

func (b *BooksAPI) Update(ctx context.Context, id int64, in BookInput) (Book, error) {
	var book Book
	err := b.client.put(ctx, fmt.Sprintf("/books/%d", id), in, &book)
	return book, err
}

func (b *BooksAPI) Delete(ctx context.Context, id int64) error {
	return b.client.delete(ctx, fmt.Sprintf("/books/%d", id))
}

func (b *BooksAPI) Availability(ctx context.Context, id int64) (Availability, error) {
	var avail Availability
	err := b.client.get(ctx, fmt.Sprintf("/books/%d/availability", id), nil, &avail)
	return avail, err
}
