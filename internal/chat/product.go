package chat

import (
	"context"
	"fmt"

	"github.com/errandboy/server/internal/catalog"
	"github.com/errandboy/server/internal/conversation"
	logx "github.com/errandboy/server/pkg/logger"
)

// productsPerPage matches the client's result page size; larger result sets
// get a pagination hint in the reply.
const productsPerPage = 8

// ProductSearcher matches products for a search query.
type ProductSearcher interface {
	Search(ctx context.Context, query string) (*catalog.ProductResults, error)
}

// ProductSearchFlow handles the product_search intent against the store
// catalog.
type ProductSearchFlow struct {
	search ProductSearcher
}

func NewProductSearchFlow(search ProductSearcher) *ProductSearchFlow {
	return &ProductSearchFlow{search: search}
}

func (f *ProductSearchFlow) Handle(ctx context.Context, turn Turn) (conversation.Message, error) {
	results, err := f.search.Search(ctx, turn.Query)
	if err != nil {
		logx.Error().Err(err).Msg("product search failed")
		return conversation.Message{
			Content: "Something went wrong while searching for products. Please try again.",
			Type:    conversation.TypeProductSearch,
		}, nil
	}

	content := results.AIResponse
	if content == "" {
		content = searchSummary(turn.Query, results.Products)
	}

	return conversation.Message{
		Content:  content,
		Products: results.Products,
		Type:     conversation.TypeProductSearch,
	}, nil
}

func searchSummary(query string, products []catalog.Product) string {
	if len(products) == 0 {
		return fmt.Sprintf("I couldn't find any products matching %q. Would you like to try a different search or browse our categories?", query)
	}

	pages := ""
	if len(products) > productsPerPage {
		totalPages := (len(products) + productsPerPage - 1) / productsPerPage
		pages = fmt.Sprintf(" (showing page 1 of %d)", totalPages)
	}
	return fmt.Sprintf("Here are some products that match your search for %q:%s", query, pages)
}

var _ Handler = (*ProductSearchFlow)(nil)
