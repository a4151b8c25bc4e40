package seeders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

func init() {
	Register("products", SeedProducts)
}

type demoProduct struct {
	name        string
	description string
	price       string
	stock       int
	sku         string
	active      bool
}

// demoCatalog is the seed data, in insertion order.
var demoCatalog = []demoProduct{
	{"Desk Lamp", "Adjustable arm, warm LED.", "34.90", 40, "LAMP0001", true},
	{"Floor Lamp", "Linen shade, 160 cm.", "89.00", 12, "LAMP0002", true},
	{"Office Chair", "Mesh back with lumbar support.", "219.00", 8, "CHAIR001", true},
	{"Standing Desk", "Electric, 140 x 70 cm.", "499.00", 5, "DESK0001", true},
	{"Monitor Arm", "", "59.50", 30, "ARM00001", true},
	{"Keyboard", "Mechanical, brown switches.", "119.99", 25, "KEYB0001", true},
	{"Wireless Mouse", "", "29.90", 60, "MOUSE001", false},
	{"Mouse Pad", "Extended, stitched edges.", "14.50", 100, "PAD00001", true},
	{"USB-C Hub", "7 ports with HDMI.", "45.00", 35, "HUB00001", true},
	{"Webcam", "1080p with privacy shutter.", "69.00", 18, "CAM00001", true},
	{"Headphones", "Closed back studio headphones.", "149.00", 14, "HEAD0001", true},
	{"Desk Organizer", "", "19.90", 0, "ORG00001", false},
	{"Cable Tray", "Under-desk steel tray.", "24.00", 45, "TRAY0001", true},
	{"Footrest", "Tilting, textured surface.", "39.00", 20, "FOOT0001", true},
	{"Laptop Stand", "Aluminium, foldable.", "49.90", 27, "STAND001", true},
	{"Notebook", "A5 dotted, 160 pages.", "9.50", 200, "NOTE0001", true},
	{"Fountain Pen", "", "79.00", 0, "PEN00001", false},
	{"Whiteboard", "90 x 60 cm, magnetic.", "64.00", 9, "BOARD001", true},
	{"Bookshelf", "Oak veneer, five shelves.", "179.00", 4, "SHELF001", true},
	{"Filing Cabinet", "Three drawers, lockable.", "149.50", 6, "CAB00001", true},
	{"Task Light", "Clamp mount.", "27.00", 33, "LAMP0003", true},
	{"Plant Pot", "Ceramic, 20 cm.", "16.00", 50, "POT00001", true},
	{"Wall Clock", "Silent sweep movement.", "32.00", 15, "CLOCK001", true},
	{"Desk Mat", "", "22.00", 0, "MAT00001", false},
	{"Paper Tray", "Stackable, set of two.", "12.90", 70, "TRAY0002", true},
}

// SeedProducts writes the demo catalog when store holds no products.
func SeedProducts(ctx context.Context, store repositories.ProductStore) error {
	_, total, err := store.List(ctx, repositories.ProductFilter{Page: 1, PerPage: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		logger.WithCtx(ctx).Info("seeders: products already present, skipping", "count", total)
		return nil
	}

	for _, d := range demoCatalog {
		price, err := decimal.NewFromString(d.price)
		if err != nil {
			return fmt.Errorf("%s: %w", d.sku, err)
		}
		in := repositories.ProductInput{
			Name:        &d.name,
			Description: &d.description,
			Price:       &price,
			Stock:       &d.stock,
			SKU:         &d.sku,
			Active:      &d.active,
		}
		if _, err := store.Create(ctx, in); err != nil {
			return fmt.Errorf("%s: %w", d.sku, err)
		}
	}
	return nil
}
