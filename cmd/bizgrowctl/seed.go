package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/identity"
	"github.com/bizgrow/backend/internal/domain/store"
	"github.com/bizgrow/backend/internal/infrastructure/persistence"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCategories are the aisles a demo kirana store stocks
var seedCategories = []string{
	"Groceries", "Snacks", "Beverages", "Dairy", "Personal Care", "Household", "Stationery",
}

type seedOptions struct {
	email    string
	password string
	products int
	seed     uint64
}

func seedCmd(e *env) *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo merchant, store and catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), e, opts)
		},
	}
	cmd.Flags().StringVar(&opts.email, "email", "demo@bizgrow.in", "merchant login")
	cmd.Flags().StringVar(&opts.password, "password", "Demo@12345", "merchant password")
	cmd.Flags().IntVar(&opts.products, "products", 40, "number of products to create")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "faker seed, 0 picks a random one")
	return cmd
}

func runSeed(ctx context.Context, e *env, opts seedOptions) error {
	faker := gofakeit.New(opts.seed)
	users := persistence.NewGormUserRepository(e.db.DB)
	stores := persistence.NewGormStoreRepository(e.db.DB)
	products := persistence.NewGormProductRepository(e.db.DB)

	merchant, err := findOrCreateMerchant(ctx, users, opts, faker)
	if err != nil {
		return err
	}

	shop, err := newSeedStore(faker, merchant.ID)
	if err != nil {
		return err
	}
	if err := stores.Save(ctx, shop); err != nil {
		return fmt.Errorf("save store: %w", err)
	}

	catalogItems, err := seedProducts(faker, shop.ID, opts.products)
	if err != nil {
		return err
	}
	if err := products.SaveBatch(ctx, catalogItems); err != nil {
		return fmt.Errorf("save products: %w", err)
	}

	e.log.Info("Seeded demo store",
		zap.String("email", merchant.Email),
		zap.String("store_id", shop.ID.String()),
		zap.String("slug", shop.Slug),
		zap.Int("products", len(catalogItems)))
	return nil
}

func findOrCreateMerchant(ctx context.Context, users identity.UserRepository, opts seedOptions, faker *gofakeit.Faker) (*identity.User, error) {
	exists, err := users.ExistsByEmail(ctx, opts.email)
	if err != nil {
		return nil, err
	}
	if exists {
		return users.FindByEmail(ctx, opts.email)
	}

	user, err := identity.NewUser(opts.email, opts.password, faker.Name(), identity.RoleMerchant)
	if err != nil {
		return nil, err
	}
	if err := users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save merchant: %w", err)
	}
	return user, nil
}

func newSeedStore(faker *gofakeit.Faker, ownerID uuid.UUID) (*store.Store, error) {
	name := faker.Company() + " Mart"
	// suffix keeps repeated seeds from colliding on the slug
	base := store.Slugify(name)
	if len(base) > 50 {
		base = strings.TrimRight(base[:50], "-")
	}
	slug := base + "-" + strings.ToLower(faker.LetterN(4))

	s, err := store.NewStore(ownerID, name, slug)
	if err != nil {
		return nil, err
	}
	address := faker.Address()
	if err := s.UpdateProfile(name, faker.Slogan(), faker.Phone(), faker.Email(),
		address.Street+", "+address.City, ""); err != nil {
		return nil, err
	}
	if err := s.SetDeliveryPricing(decimal.NewFromInt(40), decimal.NewFromInt(499)); err != nil {
		return nil, err
	}
	return s, nil
}

// seedProducts builds n products with unique names, a few of them low on stock
func seedProducts(faker *gofakeit.Faker, storeID uuid.UUID, n int) ([]*catalog.Product, error) {
	seen := make(map[string]bool, n)
	items := make([]*catalog.Product, 0, n)

	for attempts := 0; len(items) < n && attempts < n*10; attempts++ {
		name := faker.ProductName()
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		price := decimal.NewFromFloat(faker.Price(10, 2000)).Round(2)
		p, err := catalog.NewProduct(storeID, name, price)
		if err != nil {
			return nil, err
		}
		category := seedCategories[faker.Number(0, len(seedCategories)-1)]
		if err := p.Update(name, faker.ProductDescription(), category, faker.Company(), ""); err != nil {
			return nil, err
		}
		mrp := price.Mul(decimal.NewFromFloat(1 + float64(faker.IntRange(0, 30))/100)).Round(2)
		if err := p.SetPricing(price, mrp); err != nil {
			return nil, err
		}
		stock := faker.IntRange(0, 120)
		if len(items)%8 == 0 {
			stock = faker.IntRange(0, catalog.LowStockThreshold)
		}
		if err := p.SetStock(stock); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}
