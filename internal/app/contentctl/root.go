// Package contentctl is the command-line tool for inspecting and moving
// site content between persistence backends.
//
// Backend flags default to the same WAVESITE_* environment variables the
// server reads, so running it next to a deployment needs no flags:
//
//	contentctl list posts
//	contentctl export ./backup --format yaml
//	contentctl import ./backup --backend bolt --bolt data/wavesite.db
package contentctl

import (
	"context"
	"fmt"
	"os"
	"strings"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/wavesite/internal/app/store/content"
	sitestore "github.com/dalemusser/wavesite/internal/app/store/site"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Output formats
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type options struct {
	backend  string
	dir      string
	boltPath string
	mongoURI string
	mongoDB  string
	verbose  bool
}

func env(key, def string) string {
	if v, ok := os.LookupEnv("WAVESITE_" + strings.ToUpper(key)); ok && v != "" {
		return v
	}
	return def
}

// NewRootCmd builds the contentctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "contentctl",
		Short: "Inspect, export and import wavesite content",
		Long: `contentctl reads and writes site content through the same stores the
server uses, so imports are validated exactly like admin edits.

Collections: ` + strings.Join(sitestore.New(content.Deps{Backend: snapshot.NewMemory()}).Names(), ", "),
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.backend, "backend", env("content_backend", "file"), "content backend: file, bolt or mongo")
	pf.StringVar(&opts.dir, "dir", env("content_dir", "data"), "directory for the file backend")
	pf.StringVar(&opts.boltPath, "bolt", env("content_bolt_path", "data/wavesite.db"), "database file for the bolt backend")
	pf.StringVar(&opts.mongoURI, "mongo-uri", env("mongo_uri", "mongodb://localhost:27017"), "MongoDB URI for the mongo backend")
	pf.StringVar(&opts.mongoDB, "mongo-db", env("mongo_database", "wavesite"), "MongoDB database for the mongo backend")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log store activity to stderr")

	root.AddCommand(newListCmd(opts), newExportCmd(opts), newImportCmd(opts), newHashPasswordCmd())
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// open connects to the chosen backend. The returned close func releases it.
func (o *options) open(ctx context.Context) (*sitestore.Stores, func(), error) {
	logger := zap.NewNop()
	if o.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, nil, err
		}
		logger = l
	}

	var (
		backend snapshot.Backend
		closeFn = func() {}
	)
	switch o.backend {
	case "file":
		f, err := snapshot.NewFile(o.dir)
		if err != nil {
			return nil, nil, err
		}
		backend = f
	case "bolt":
		b, err := snapshot.OpenBolt(o.boltPath)
		if err != nil {
			return nil, nil, err
		}
		backend = b
		closeFn = func() { _ = b.Close() }
	case "mongo":
		client, err := wafflemongo.ConnectWithPool(ctx, o.mongoURI, o.mongoDB, wafflemongo.DefaultPoolConfig())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		backend = snapshot.NewMongo(client.Database(o.mongoDB))
		closeFn = func() { _ = client.Disconnect(context.Background()) }
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want file, bolt or mongo)", o.backend)
	}

	stores := sitestore.New(content.Deps{Backend: backend, Logger: logger})
	return stores, func() {
		closeFn()
		_ = logger.Sync()
	}, nil
}

func checkFormat(f string) error {
	switch f {
	case formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (want json or yaml)", f)
	}
}
