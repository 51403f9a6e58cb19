package devtasks

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"mvdan.cc/sh/v3/interp"
)

// builtinHandler implements a POSIX command in-process
type builtinHandler func(ctx context.Context, dir string, args []string) error

// builtins are always served by our cross-platform implementations to make sure they behave
// consistently
var builtins = map[string]builtinHandler{
	"rm":    rmBuiltin,
	"mkdir": mkdirBuiltin,
}

func execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if len(args) > 0 {
			if handler, ok := builtins[args[0]]; ok {
				hc := interp.HandlerCtx(ctx)
				return handler(ctx, hc.Dir, args[1:])
			}
		}

		return next(ctx, args)
	}
}

func resolveArg(dir, item string) string {
	if filepath.IsAbs(item) {
		return filepath.Clean(item)
	}
	return filepath.Join(dir, item)
}

func rmBuiltin(ctx context.Context, dir string, args []string) error {
	flags := pflag.NewFlagSet("rm", pflag.ContinueOnError)
	recursive := flags.BoolP("recursive", "r", false, "recursively delete directories")
	force := flags.BoolP("force", "f", false, "suppresses errors caused by missing files/folders")
	if err := flags.Parse(args); err != nil {
		return eris.Wrap(err, "rm")
	}

	items := make([]string, 0, flags.NArg())
	for _, item := range flags.Args() {
		item = resolveArg(dir, item)
		info, err := os.Stat(item)
		if err != nil {
			if *force && eris.Is(err, os.ErrNotExist) {
				continue
			}
			return eris.Wrapf(err, "Could not stat %s", item)
		}

		if info.IsDir() && !*recursive {
			return eris.Errorf("%s is a directory but -r wasn't passed", item)
		}
		items = append(items, item)
	}

	for _, item := range items {
		err := os.RemoveAll(item)
		if err != nil && (!*force || !eris.Is(err, os.ErrNotExist)) {
			return eris.Wrapf(err, "Could not delete %s", item)
		}
	}

	return nil
}

func mkdirBuiltin(ctx context.Context, dir string, args []string) error {
	flags := pflag.NewFlagSet("mkdir", pflag.ContinueOnError)
	makeParents := flags.BoolP("parents", "p", false, "create parent directories as needed")
	if err := flags.Parse(args); err != nil {
		return eris.Wrap(err, "mkdir")
	}

	for _, item := range flags.Args() {
		item = resolveArg(dir, item)

		var err error
		if *makeParents {
			err = os.MkdirAll(item, 0o755)
		} else {
			err = os.Mkdir(item, 0o755)
		}

		if err != nil {
			return eris.Wrapf(err, "Failed to create %s", item)
		}
	}

	return nil
}
