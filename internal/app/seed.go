package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"mobilepay_ledger/internal/domain/entities"

	"go.uber.org/zap"
)

// SeedData is the fixture format of SEED_FILE.
type SeedData struct {
	Pods     []entities.SavingsPod `json:"pods"`
	Products []entities.Product    `json:"products"`
}

// Seed loads pods and products from a JSON file. Records that already exist
// are logged and skipped so a restart against DynamoDB is harmless.
func (c *Container) Seed(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return c.seed(ctx, data)
}

func (c *Container) seed(ctx context.Context, data SeedData) error {
	log := c.Logger.With(zap.String("component", "seed"))
	for _, pod := range data.Pods {
		if pod.Currency == "" {
			pod.Currency = c.Config.Currency
		}
		if pod.Status == "" {
			pod.Status = entities.PodStatusActive
		}
		if _, err := c.Pods.Create(ctx, pod); err != nil {
			log.Warn("pod not seeded", zap.String("pod_id", pod.ID), zap.Error(err))
			continue
		}
		log.Info("pod seeded", zap.String("pod_id", pod.ID), zap.Int("members", len(pod.Members)))
	}
	for _, p := range data.Products {
		if p.Currency == "" {
			p.Currency = c.Config.Currency
		}
		if p.Status == "" {
			p.Status = entities.ProductStatusActive
		}
		if _, err := c.Market.CreateProduct(ctx, p); err != nil {
			log.Warn("product not seeded", zap.String("product_id", p.ID), zap.Error(err))
			continue
		}
		log.Info("product seeded", zap.String("product_id", p.ID), zap.Int64("quantity", p.Quantity))
	}
	return nil
}
