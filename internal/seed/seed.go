// Package seed loads the sample household products.
package seed

import (
	"context"

	"go-household-inventory/internal/model"
	"go-household-inventory/internal/service"
	"go-household-inventory/pkg/logger"
)

var stores = []string{
	"西友",
	"イオン",
	"コストコ",
	"カルディ",
	"業務スーパー",
	"セブンイレブン",
	"ファミリーマート",
	"ローソン",
	"ドン・キホーテ",
	"マツモトキヨシ",
}

func sample(name, description, location string, stock, minimum int, tags ...string) model.CreateProductRequest {
	return model.CreateProductRequest{
		Name:             name,
		Description:      &description,
		PurchaseLocation: location,
		StockQuantity:    &stock,
		MinimumStock:     &minimum,
		Tags:             tags,
	}
}

// Products returns the sample catalogue. Status is derived on create.
func Products() []model.CreateProductRequest {
	return []model.CreateProductRequest{
		sample("食パン", "毎日の朝食用の食パン", stores[0], 2, 1, "食品"),
		sample("トイレットペーパー", "12ロール入り パック", stores[1], 3, 2, "日用品"),
		sample("牛乳", "1000ml 成分無調整", stores[2], 1, 1, "食品", "冷蔵"),
		sample("コーヒー豆", "ブラジル産 中煎り", stores[3], 2, 1, "食品", "飲料"),
		sample("米", "新潟県産コシヒカリ 5kg", stores[4], 1, 1, "食品"),
		sample("ティッシュペーパー", "5箱パック", stores[5], 2, 1, "日用品"),
		sample("シャンプー", "詰め替え用 400ml", stores[9], 1, 1, "日用品", "バス用品"),
		sample("ハンドソープ", "泡タイプ 詰め替え用", stores[9], 2, 1, "日用品"),
		sample("キッチンペーパー", "3ロール入り", stores[1], 2, 1, "日用品"),
		sample("歯磨き粉", "ミント味 大容量", stores[9], 1, 1, "日用品"),
		sample("卵", "10個入り", stores[0], 0, 1, "食品", "冷蔵"),
		sample("洗濯洗剤", "詰め替え用 大容量", stores[8], 0, 1, "日用品"),
	}
}

// Run creates the sample products through the lifecycle service. It does
// nothing when products already exist unless force is set.
func Run(ctx context.Context, lifecycle service.ProductService, query service.QueryService, logg *logger.Logger, force bool) (int, error) {
	if !force {
		existing, err := query.ListAll(ctx)
		if err != nil {
			return 0, err
		}
		if len(existing) > 0 {
			logg.Info(logg.WithField(ctx, "existing", len(existing)), "products already present, skipping seed")
			return 0, nil
		}
	}

	created := 0
	for _, req := range Products() {
		req := req
		product, err := lifecycle.Create(ctx, &req)
		if err != nil {
			return created, err
		}
		created++
		logg.Info(logg.WithFields(ctx, map[string]any{
			"id":     product.ID.String(),
			"name":   product.Name,
			"status": product.Status,
		}), "created product")
	}
	return created, nil
}
