package main

import (
	"context"
	"log"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/config"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/product"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/repository/mysql"
)

// 初始商品目录，与前端起始清单一致
var seedProducts = []product.Product{
	{
		Name:        "Basmati Rice",
		Price:       120,
		Unit:        "kg",
		Category:    product.CategoryGrains,
		Stock:       50,
		Image:       "https://picsum.photos/seed/rice/400/300",
		Description: "Long grain aromatic basmati rice.",
		Status:      1,
	},
	{
		Name:        "Organic Milk",
		Price:       65,
		Unit:        "L",
		Category:    product.CategoryDairy,
		Stock:       20,
		Image:       "https://picsum.photos/seed/milk/400/300",
		Description: "Fresh farm milk, homogenized.",
		Status:      1,
	},
	{
		Name:        "Fresh Tomatoes",
		Price:       40,
		Unit:        "kg",
		Category:    product.CategoryVegetables,
		Stock:       15,
		Image:       "https://picsum.photos/seed/tomato/400/300",
		Description: "Vine-ripened red tomatoes.",
		Status:      1,
	},
	{
		Name:        "Bananas",
		Price:       60,
		Unit:        "dozen",
		Category:    product.CategoryFruits,
		Stock:       12,
		Image:       "https://picsum.photos/seed/banana/400/300",
		Description: "Sweet ripe bananas.",
		Status:      1,
	},
	{
		Name:        "Digestive Biscuits",
		Price:       35,
		Unit:        "pack",
		Category:    product.CategorySnacks,
		Stock:       100,
		Image:       "https://picsum.photos/seed/biscuit/400/300",
		Description: "Healthy fiber-rich biscuits.",
		Status:      1,
	},
	{
		Name:        "Lentils (Masoor Dal)",
		Price:       110,
		Unit:        "kg",
		Category:    product.CategoryGrains,
		Stock:       30,
		Image:       "https://picsum.photos/seed/lentils/400/300",
		Description: "High protein red lentils.",
		Status:      1,
	},
	{
		Name:        "Detergent Powder",
		Price:       250,
		Unit:        "kg",
		Category:    product.CategoryHousehold,
		Stock:       10,
		Image:       "https://picsum.photos/seed/soap/400/300",
		Description: "Tough on stains, gentle on clothes.",
		Status:      1,
	},
}

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := mysql.Init(&cfg.MySQL)
	repo := mysql.NewProductRepository(db)
	ctx := context.Background()

	existing, err := repo.ListAll(ctx)
	if err != nil {
		log.Fatalf("list products failed: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("catalog already has %d products, nothing to do", len(existing))
		return
	}

	for i := range seedProducts {
		p := seedProducts[i]
		if err := repo.Create(ctx, &p); err != nil {
			log.Fatalf("seed product %q failed: %v", p.Name, err)
		}
		log.Printf("seeded product %d: %s", p.ID, p.Name)
	}
	log.Printf("done, %d products seeded", len(seedProducts))
}
