package features

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
	"github.com/georgemunganga/danasys-storefront/internal/modules/cart"
)

type cartTestContext struct {
	store    *cart.Store
	products map[string]cart.Product
}

func (c *cartTestContext) reset() {
	c.store = cart.NewStore()
	c.products = map[string]cart.Product{}
}

func (c *cartTestContext) anEmptyCart() error {
	c.store = cart.NewStore()
	return nil
}

func (c *cartTestContext) theCartKeepsTheHistoricalQuantityCounter() error {
	c.store = cart.NewStore(cart.WithUnguardedRemove())
	return nil
}

func (c *cartTestContext) theCatalogContains(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		price, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return err
		}
		mrp, err := strconv.ParseFloat(row.Cells[2].Value, 64)
		if err != nil {
			return err
		}
		inventory, err := strconv.Atoi(row.Cells[4].Value)
		if err != nil {
			return err
		}
		id := row.Cells[0].Value
		c.products[id] = cart.Product{
			ID:        id,
			Price:     price,
			MRP:       mrp,
			SellerID:  row.Cells[3].Value,
			Inventory: inventory,
		}
	}
	return nil
}

func (c *cartTestContext) product(id string) (cart.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return cart.Product{}, fmt.Errorf("product %q not in catalog", id)
	}
	return p, nil
}

func (c *cartTestContext) iAdd(id string) error {
	return c.iAddTimes(id, 1)
}

func (c *cartTestContext) iAddTimes(id string, n int) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		c.store.AddItem(p)
	}
	return nil
}

func (c *cartTestContext) iRemove(id string) error {
	c.store.RemoveItem(id)
	return nil
}

func (c *cartTestContext) iClearTheCart() error {
	c.store.Clear()
	return nil
}

func (c *cartTestContext) lineHasQuantity(id string, want int) error {
	line, ok := c.store.Snapshot().Line(id)
	if !ok {
		return fmt.Errorf("no line for %q", id)
	}
	if line.Quantity != want {
		return fmt.Errorf("line %q quantity = %d, want %d", id, line.Quantity, want)
	}
	return nil
}

func (c *cartTestContext) thereIsNoLineFor(id string) error {
	if _, ok := c.store.Snapshot().Line(id); ok {
		return fmt.Errorf("unexpected line for %q", id)
	}
	return nil
}

func (c *cartTestContext) theCartHasLines(want int) error {
	if got := c.store.Snapshot().Len(); got != want {
		return fmt.Errorf("cart has %d lines, want %d", got, want)
	}
	return nil
}

func (c *cartTestContext) theTotalQuantityIs(want int) error {
	if got := c.store.Snapshot().TotalQuantity; got != want {
		return fmt.Errorf("total quantity = %d, want %d", got, want)
	}
	return nil
}

func (c *cartTestContext) theSellerIs(want string) error {
	if got := c.store.Snapshot().SellerID; got != want {
		return fmt.Errorf("seller = %q, want %q", got, want)
	}
	return nil
}

func amountStep(field string, get func(cart.State) float64, c *cartTestContext) func(float64) error {
	return func(want float64) error {
		if got := get(c.store.Snapshot()); got != want {
			return fmt.Errorf("%s = %v, want %v", field, got, want)
		}
		return nil
	}
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^the cart keeps the historical quantity counter$`, tc.theCartKeepsTheHistoricalQuantityCounter)
	ctx.Step(`^the catalog contains:$`, tc.theCatalogContains)

	// When steps
	ctx.Step(`^I add "([^"]*)"$`, tc.iAdd)
	ctx.Step(`^I add "([^"]*)" (\d+) times$`, tc.iAddTimes)
	ctx.Step(`^I remove "([^"]*)"$`, tc.iRemove)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)

	// Then steps
	ctx.Step(`^line "([^"]*)" has quantity (\d+)$`, tc.lineHasQuantity)
	ctx.Step(`^there is no line for "([^"]*)"$`, tc.thereIsNoLineFor)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the total quantity is (\d+)$`, tc.theTotalQuantityIs)
	ctx.Step(`^the seller is "([^"]*)"$`, tc.theSellerIs)
	ctx.Step(`^the bill amount is (\d+(?:\.\d+)?)$`, amountStep("bill amount", func(s cart.State) float64 { return s.BillAmount }, tc))
	ctx.Step(`^the total amount is (\d+(?:\.\d+)?)$`, amountStep("total amount", func(s cart.State) float64 { return s.TotalAmount }, tc))
	ctx.Step(`^the discount is (\d+(?:\.\d+)?)$`, amountStep("discount", func(s cart.State) float64 { return s.Discount }, tc))
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
