package config

import (
	"context"
	"encoding/json"
	"log"

	"forza-loanapp/internal/adapters/persistence/collections"
	"forza-loanapp/internal/core/domain"
)

// SeedLoanProducts seeds the product catalog collection when it is empty.
// Seeding runs once at startup, before the server accepts requests.
func SeedLoanProducts(ctx context.Context, engine *collections.Engine) error {
	raw, err := engine.Do(ctx, collections.Request{
		Collection: collections.LoanProducts,
		Method:     collections.MethodGet,
	})
	if err != nil {
		return err
	}

	var existing []domain.LoanProduct
	if err := json.Unmarshal(raw, &existing); err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	products := []domain.LoanProduct{
		{Key: "microloan", Icon: "flash", Title: "Non-purpose microloan"},
		{Key: "pensioner", Icon: "elderly", Title: "Loan for pensioners"},
		{Key: "installment", Icon: "card", Title: "Installment loan"},
		{Key: "sonic", Icon: "headset", Title: "Sonic loan"},
		{Key: "quick", Icon: "rocket", Title: "Quick loan"},
	}

	for _, product := range products {
		if _, err := engine.Do(ctx, collections.Request{
			Collection: collections.LoanProducts,
			Method:     collections.MethodPost,
			Body:       product,
		}); err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d loan products", len(products))
	return nil
}
