package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// topicDef describes a topic the storefront produces to.
type topicDef struct {
	name              string
	partitions        int32
	replicationFactor int16
	minISR            int
	cleanupPolicy     string
}

func (s topicDef) configs() map[string]*string {
	minISR := strconv.Itoa(s.minISR)
	policy := s.cleanupPolicy
	return map[string]*string{
		"cleanup.policy":      &policy,
		"min.insync.replicas": &minISR,
	}
}

// cartTopics keeps the latest cart snapshot per key.
func cartTopics(cfg config.Config) []topicDef {
	return []topicDef{
		{
			name:              cfg.Broker.Topics.CartEvents,
			partitions:        3,
			replicationFactor: 3,
			minISR:            1,
			cleanupPolicy:     "compact",
		},
	}
}

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()

	cl, err := createClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create admin client: %s\n", err)
		os.Exit(1)
	}
	defer cl.Close()

	defs := cartTopics(cfg)
	printStart(os.Stdout, defs)
	start := time.Now()

	if err := makeTopics(sigCtx, cl, os.Stdout, defs...); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create topics:\n%s\n", err)
		os.Exit(1)
	}
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func createClient(cfg config.Config) (*kadm.Client, error) {
	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Broker.SeedBrokers...)}

	tlsCfg, err := adapter.MakeTLSConfig(
		cfg.Broker.TLS.CA, cfg.Broker.TLS.Cert, cfg.Broker.TLS.Key,
	)
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}
	return kadm.NewOptClient(opts...)
}

// makeTopics treats an existing topic as success.
func makeTopics(
	ctx context.Context, cl *kadm.Client, out io.Writer, defs ...topicDef,
) error {
	var errs []error
	for _, s := range defs {
		res, err := cl.CreateTopic(
			ctx, s.partitions, s.replicationFactor, s.configs(), s.name,
		)
		if err == nil {
			err = res.Err
		}
		switch {
		case err == nil:
			fmt.Fprintf(out, "topic: %q successfully created\n", s.name)
		case errors.Is(err, kerr.TopicAlreadyExists):
			fmt.Fprintf(out, "topic: %q already exists\n", s.name)
		default:
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func printStart(out io.Writer, defs []topicDef) {
	fmt.Fprintln(out, "initializing topics...")
	for _, s := range defs {
		fmt.Fprintf(out, "\t- %q (%s)\n", s.name, s.cleanupPolicy)
	}
	fmt.Fprintln(out)
}
