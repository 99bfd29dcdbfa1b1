package main

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/miekg/rfcmark"
	"github.com/miekg/rfcmark/catalog"
	"github.com/miekg/rfcmark/state"
)

func runConvert(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no source specified")
	}
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	src, dst := cmd.Args().Get(0), cmd.Args().Get(1)

	cfg := env.Cfg.Conversion
	if cmd.IsSet("biblio-dir") {
		cfg.BiblioDir = cmd.String("biblio-dir")
	}
	if cmd.IsSet("flush-caches") {
		cfg.FlushCaches = cmd.Bool("flush-caches")
	}
	if cmd.IsSet("xml2") && cmd.Bool("xml2") {
		cfg.XMLVersion = 2
	}
	env.Cfg.Conversion = cfg

	opts := rfcmark.Options{
		Normative: append(append([]string(nil), cfg.Normative...), rfcmark.ParseTargets(cmd.String("normative"))...),
		Logger:    env.Log,
	}
	if cfg.XMLVersion == 2 {
		opts.Flags |= rfcmark.XML2
	}
	if dir, ok := env.BiblioDir(); ok {
		opts.Bibliography = os.DirFS(dir)
	}
	if opts.Catalogs, err = env.Catalogs(); err != nil {
		return fmt.Errorf("unable to prepare catalogs: %w", err)
	}
	if cfg.FlushCaches {
		for _, k := range catalog.Kinds {
			if err := opts.Catalogs.Flush(k); err != nil {
				return err
			}
		}
	}

	var in io.Reader = os.Stdin
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return fmt.Errorf("unable to open source: %w", err)
		}
		defer f.Close()
		in = f
	}
	root, err := rfcmark.DecodeTree(in)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", src, err)
	}

	res, err := rfcmark.Convert(ctx, root, opts)
	if err != nil {
		return fmt.Errorf("unable to convert %s: %w", src, err)
	}

	out := os.Stdout
	if dst != "" {
		if out, err = os.Create(dst); err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dst, err)
		}
		defer func() {
			err = multierr.Append(err, out.Close())
		}()
	}
	if _, err := res.Document.WriteTo(out); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}

	env.Log.Info("Conversion completed",
		zap.String("source", src),
		zap.Int("normative", len(res.Resolution.Normative)),
		zap.Int("informative", len(res.Resolution.Informative)),
		zap.Int("unresolved", len(res.Warnings())),
		zap.Duration("elapsed", env.Uptime()))
	return nil
}

func runFlush(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	kinds := catalog.Kinds
	if cmd.Args().Len() > 0 {
		kinds = nil
		for _, name := range cmd.Args().Slice() {
			k, ok := catalog.ParseKind(name)
			if !ok {
				return fmt.Errorf("unknown catalog %q", name)
			}
			kinds = append(kinds, k)
		}
	}

	set, err := env.Catalogs()
	if err != nil {
		return fmt.Errorf("unable to prepare catalogs: %w", err)
	}
	var errs error
	for _, k := range kinds {
		if err := set.Flush(k); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		env.Log.Info("Catalog flushed", zap.Stringer("catalog", k), zap.String("file", set.Path(k)))
	}
	if errs != nil {
		return errs
	}
	if cmd.Bool("fetch") {
		return set.Prefetch(ctx, kinds...)
	}
	return nil
}
