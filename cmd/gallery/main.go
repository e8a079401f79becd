package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/badge"
	"github.com/niksmo/storefront/internal/adapter/render"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/spf13/pflag"
)

type options struct {
	config   string
	category string
	search   string
	view     string
	add      []string
	remove   []string
	clear    bool
	cart     bool
}

func main() {
	opts := parseFlags(os.Args[1:])

	ctx, stop := sigctx.NotifyContext(context.Background())
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string) options {
	var o options
	fs := pflag.NewFlagSet("gallery", pflag.ExitOnError)
	fs.StringVar(&o.config, "config", "config.yaml", "config file")
	fs.StringVarP(&o.category, "category", "c", domain.AllCategories, "category filter")
	fs.StringVarP(&o.search, "search", "s", "", "search by name or tag")
	fs.StringVarP(&o.view, "view", "v", "", "product id to quick view")
	fs.StringSliceVarP(&o.add, "add", "a", nil, "product ids to add to cart")
	fs.StringSliceVarP(&o.remove, "remove", "r", nil, "product ids to remove from cart")
	fs.BoolVar(&o.clear, "clear", false, "clear the cart")
	fs.BoolVar(&o.cart, "cart", false, "print the cart")
	_ = fs.Parse(args)
	return o
}

func run(ctx context.Context, o options, out io.Writer) error {
	const op = "gallery.run"

	cfg, err := config.LoadFile(o.config)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	s, err := storage.New(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer s.Close()

	cart := service.NewCartStore(s,
		service.CartKeyOpt(cfg.CartKey),
		service.CartBadgeOpt(badge.WriterBadge{W: out}),
	)
	g := service.NewGallery(catalog.Products(), cart, render.NewTextRenderer(out))

	fmt.Fprintf(out, "Filters: %s\n\n", strings.Join(g.Filters(), " | "))
	g.Apply(domain.FilterState{ActiveCategory: o.category, SearchQuery: o.search})

	if o.view != "" {
		fmt.Fprintln(out)
		g.QuickView(o.view)
	}

	for _, id := range o.add {
		if err := g.AddToCart(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	for _, id := range o.remove {
		if err := cart.Remove(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if o.clear {
		if err := cart.Clear(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if o.cart {
		printCart(ctx, out, cart)
	}
	return nil
}

func printCart(ctx context.Context, out io.Writer, cart *service.CartStore) {
	fmt.Fprintln(out)
	items := cart.Items(ctx)
	if len(items) == 0 {
		fmt.Fprintln(out, "Cart is empty.")
		return
	}
	for _, it := range items {
		fmt.Fprintf(out, "%-8s %-20s %3d x %s\n", it.ID, it.Name, it.Qty, render.Price(it.Price))
	}
	fmt.Fprintf(out, "Items: %d  Subtotal: %s\n", cart.Count(ctx), render.Price(cart.Subtotal(ctx)))
}
