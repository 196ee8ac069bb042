package cmd

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/kerbaras/dualbook/pkg/config"
	"github.com/kerbaras/dualbook/pkg/data"
	"github.com/kerbaras/dualbook/pkg/integrations"
	"github.com/kerbaras/dualbook/pkg/logging"
	"github.com/kerbaras/dualbook/pkg/services"
	"github.com/kerbaras/dualbook/pkg/sources"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// setup loads the config file, applies flag overrides and starts logging.
func setup(cmd *cobra.Command) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	applyFlags(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger, closeFn, err := logging.New(loaded.Log.Level, loaded.Log.File)
	if err != nil {
		return err
	}
	log.Logger = logger
	closeLog = closeFn

	cfg = loaded
	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flagChanged(cmd, "log-level") {
		c.Log.Level, _ = flags.GetString("log-level")
	}
	if flagChanged(cmd, "log-file") {
		c.Log.File, _ = flags.GetString("log-file")
	}
	if flagChanged(cmd, "library") {
		c.Library.Path, _ = flags.GetString("library")
	}
	if flagChanged(cmd, "original") {
		c.Original.Location, _ = flags.GetString("original")
	}
	if flagChanged(cmd, "translated") {
		c.Translated.Location, _ = flags.GetString("translated")
	}
	if flagChanged(cmd, "original-offset") {
		c.Original.Offset, _ = flags.GetInt("original-offset")
	}
	if flagChanged(cmd, "translated-offset") {
		c.Translated.Offset, _ = flags.GetInt("translated-offset")
	}
	if flagChanged(cmd, "concurrency") {
		c.Loader.Concurrency, _ = flags.GetInt("concurrency")
	}
}

type deps struct {
	repo       *data.Repository
	controller *services.BookController
}

// newDeps wires the service layer. The library database is only opened when
// withLibrary is set.
func newDeps(cmd *cobra.Command, withLibrary bool) (*deps, error) {
	fetcher := sources.NewAuto(&http.Client{Timeout: cfg.Loader.FetchTimeout})

	loader := services.NewLoader(services.EPubResolver{Fetcher: fetcher})
	loader.Concurrency = cfg.Loader.Concurrency
	loader.ChapterTimeout = cfg.Loader.ChapterTimeout

	outputDir := "."
	if f := cmd.Flags().Lookup("output"); f != nil {
		outputDir = f.Value.String()
	}
	exporter := integrations.NewEPubBuilder(outputDir)

	d := &deps{}
	var repo services.Repository
	if withLibrary {
		r, err := data.OpenRepository(cfg.Library.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open library: %w", err)
		}
		d.repo = r
		repo = r
	}

	d.controller = services.NewBookController(repo, loader, exporter)
	return d, nil
}

func (d *deps) Close() {
	if d.repo != nil {
		d.repo.Close()
	}
}

// request picks the books to open: a library pair when --pair is set,
// otherwise the configured locations.
func (d *deps) request(cmd *cobra.Command) (string, services.Request, error) {
	if flagChanged(cmd, "pair") {
		ref, _ := cmd.Flags().GetString("pair")
		pair, err := d.controller.FindPair(ref)
		if err != nil {
			return "", services.Request{}, err
		}
		return pair.Name, services.RequestFor(pair), nil
	}

	req := services.Request{
		Original:   services.SourceSpec{Location: cfg.Original.Location, Offset: cfg.Original.Offset},
		Translated: services.SourceSpec{Location: cfg.Translated.Location, Offset: cfg.Translated.Offset},
	}
	return titleFromLocation(cfg.Original.Location), req, nil
}

func titleFromLocation(location string) string {
	base := path.Base(strings.TrimSuffix(location, "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
