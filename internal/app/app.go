package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/hokaccha/go-prettyjson"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-colorable"

	"github.com/yyyoichi/hidepix"
	"github.com/yyyoichi/hidepix/internal/config"
	"github.com/yyyoichi/hidepix/validate"
)

// App holds all shared mutable state for the CLI. It is created once per
// invocation and threaded into every command.
type App struct {
	// I/O
	OutWriter    io.Writer
	ErrWriter    io.Writer
	InReader     io.Reader
	ColorableOut io.Writer
	Logger       *log.Logger

	// Config state
	Cfg        config.Config
	CfgFile    string
	FormatFlag string
	Verbose    bool
	Yes        bool

	JSONFmt *prettyjson.Formatter
}

// New creates an App with sane defaults.
func New() *App {
	return &App{
		OutWriter:    os.Stdout,
		ErrWriter:    os.Stderr,
		InReader:     os.Stdin,
		ColorableOut: colorable.NewColorableStdout(),
		Logger:       log.New(io.Discard, "", 0),
		JSONFmt:      prettyjson.NewFormatter(),
	}
}

// InitConfig reads the config file and sets up logging.
// Called by PersistentPreRunE on the root command.
func (a *App) InitConfig() error {
	var err error
	a.Cfg, err = config.ReadConfig(a.CfgFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if a.Verbose {
		a.Logger = log.New(a.ErrWriter, "[hidepix] ", log.LstdFlags)
	}
	a.Logger.Printf("config: %s", a.Cfg.Path())
	return nil
}

// Stego creates a codec from the config, with --format taking precedence.
func (a *App) Stego() (*hidepix.Stego, error) {
	opts, err := a.Cfg.Options()
	if err != nil {
		return nil, err
	}
	if a.FormatFlag != "" {
		f, err := hidepix.ParseFormat(a.FormatFlag)
		if err != nil {
			return nil, err
		}
		opts = append(opts, hidepix.WithFormat(f))
	}
	return hidepix.New(opts...)
}

// Policy returns the validation policy from the config.
func (a *App) Policy() validate.Policy {
	return a.Cfg.Policy()
}

// CheckImage validates an input carrier file against the policy.
func (a *App) CheckImage(path string) error {
	return a.checkFile(path, a.Policy().CheckImage)
}

// CheckAudio validates an input audio file against the policy.
func (a *App) CheckAudio(path string) error {
	return a.checkFile(path, a.Policy().CheckAudio)
}

func (a *App) checkFile(path string, check func(string, int64) error) error {
	if path == "" {
		return check("", 0)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return check(filepath.Base(path), info.Size())
}

// OutputPath places name in the configured output directory, or next to input
// when none is configured.
func (a *App) OutputPath(input, name string) string {
	dir := a.Cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// ConfirmOverwrite asks before replacing an existing file unless --yes is set.
func (a *App) ConfirmOverwrite(path string) error {
	if a.Yes {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Overwrite %s", path),
		IsConfirm: true,
		Stdin:     io.NopCloser(a.InReader),
	}
	if _, err := prompt.Run(); err != nil {
		return fmt.Errorf("aborted, %s already exists", path)
	}
	return nil
}

// PrintJSON writes v as indented JSON, colored when writing to a terminal.
func (a *App) PrintJSON(v any) error {
	b, err := a.JSONFmt.Marshal(v)
	if err != nil {
		return err
	}
	_, _ = a.ColorableOut.Write(b)
	fmt.Fprintln(a.OutWriter)
	return nil
}

const (
	TabwriterMinWidth = 6
	TabwriterWidth    = 4
	TabwriterPadding  = 3
	TabwriterPadChar  = ' '
	TabwriterFlags    = 0
)

// NewTabWriter creates a standard tabwriter for CLI output.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, TabwriterMinWidth, TabwriterWidth, TabwriterPadding, TabwriterPadChar, TabwriterFlags)
}
