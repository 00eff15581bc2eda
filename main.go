package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"LocalSketch/internal/config"
	"LocalSketch/internal/export"
	sketchnet "LocalSketch/internal/net"
	"LocalSketch/internal/render"
	"LocalSketch/internal/session"
	"LocalSketch/internal/state"
	"LocalSketch/internal/ui"
	"github.com/charmbracelet/fang"
	"github.com/dustin/go-humanize"
	"github.com/gogpu/gg"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

const discoverTimeout = 3 * time.Second

var (
	BuildVersion   = "master"
	BuildCommit    = "00000000"
	BuildDate      = time.Now().Format("2006-01-02T15:04:05Z")
	BuildGoVersion = runtime.Version()
	cfgFile        string
	outFile        string
	rootCmd        = &cobra.Command{
		Use:   "localsketch",
		Short: "Freehand drawing board",
		Long:  `localsketch - A freehand drawing board with undo, redo, export and LAN sharing`,
		Args:  cobra.NoArgs,
		RunE:  run,
	}

	receiveCmd = &cobra.Command{
		Use:   "receive [link]",
		Short: "Fetch a shared drawing",
		Long:  "Download the drawing shared at a localsketch:// link, or discover a sharer on the local network",
		Args:  cobra.MaximumNArgs(1),
		RunE:  receive,
	}

	versionCmd = &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Long:              "Print detailed version information about localsketch",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		Run:               version,
	}
)

var errApp = errors.New("application error")

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path")
	receiveCmd.Flags().StringVarP(&outFile, "out", "o", export.FileName, "Output file path")
	rootCmd.AddCommand(receiveCmd, versionCmd)

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		slog.Error("Exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func version(_ *cobra.Command, _ []string) {
	fmt.Printf("localsketch - Freehand drawing board\n\n") //nolint:forbidigo
	fmt.Printf("  Version: %s\n", BuildVersion)            //nolint:forbidigo
	fmt.Printf("  Commit:  %s\n", BuildCommit)             //nolint:forbidigo
	fmt.Printf("  Built:   %s\n", BuildDate)               //nolint:forbidigo
	fmt.Printf("  Runtime: %s\n\n", BuildGoVersion)        //nolint:forbidigo
}

// setup reads the config and installs the logger.
func setup(changes chan<- config.Config) (*config.Loader, config.Config, io.Closer, error) {
	loader := config.NewLoader(changes)
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}

	userConfig, errConfig := loader.Read()
	if errConfig != nil {
		return nil, config.Config{}, nil, errors.Join(errConfig, errApp)
	}

	level, _ := config.ParseLevel(userConfig.LogLevel)
	logFile, errLogger := config.LoggerInit(userConfig.LogFile, level)
	if errLogger != nil {
		return nil, config.Config{}, nil, errors.Join(errLogger, errApp)
	}
	gg.SetLogger(slog.Default())

	return loader, userConfig, logFile, nil
}

func closeWith(name string, closer io.Closer) {
	if err := closer.Close(); err != nil {
		slog.Error("Failed to close "+name, slog.String("error", err.Error()))
	}
}

// run opens the drawing window.
func run(_ *cobra.Command, _ []string) error {
	configUpdates := make(chan config.Config)

	loader, userConfig, logFile, errSetup := setup(configUpdates)
	if errSetup != nil {
		return errSetup
	}
	defer closeWith("log file", logFile)

	slog.Info("Starting localsketch", slog.String("version", BuildVersion),
		slog.String("commit", BuildCommit), slog.String("date", BuildDate),
		slog.String("go", runtime.Version()), slog.String("config", loader.Path()))

	width, height := userConfig.SurfaceSize()
	renderer := render.New(width, height,
		render.WithBackground(userConfig.BackgroundColor()),
		render.WithLineWidth(userConfig.LineWidth))
	defer closeWith("renderer", renderer)

	shareServer := sketchnet.NewShareServer(sketchnet.ShareOptions{
		Port:      userConfig.SharePort,
		Host:      userConfig.ShareHost,
		Advertise: userConfig.ShareAdvertise,
	})
	defer closeWith("share server", shareServer)

	history := state.NewHistory(userConfig.HistoryOptions()...)
	settings := state.NewSettings(state.ToolBrush, userConfig.InkColor(), userConfig.Opacity)
	sess := session.New(history, settings, renderer,
		session.WithStyleMode(userConfig.Mode()),
		session.WithSharer(shareServer),
		session.WithPDFOptions(export.PDFOptions{
			Background: userConfig.BackgroundColor(),
			LineWidth:  userConfig.LineWidth,
		}))

	loader.Watch()
	ui.NewApp(userConfig, sess, renderer, configUpdates).Run()

	return nil
}

// receive fetches a shared drawing and writes it to --out.
func receive(cmd *cobra.Command, args []string) error {
	_, _, logFile, errSetup := setup(nil)
	if errSetup != nil {
		return errSetup
	}
	defer closeWith("log file", logFile)

	address, errAddress := resolveAddress(cmd.Context(), args)
	if errAddress != nil {
		return errors.Join(errAddress, errApp)
	}

	file, errReceive := sketchnet.Receive(cmd.Context(), address)
	if errReceive != nil {
		return errors.Join(errReceive, errApp)
	}

	out := outFile
	if out == "" {
		out = filepath.Base(file.Name)
	}

	if err := os.WriteFile(out, file.Data, 0o600); err != nil {
		return errors.Join(err, errApp)
	}

	fmt.Printf("Saved %s (%s) from %s\n", out, humanize.Bytes(uint64(len(file.Data))), address) //nolint:forbidigo

	return nil
}

func resolveAddress(ctx context.Context, args []string) (string, error) {
	if len(args) == 1 {
		return sketchnet.ParseLink(args[0])
	}

	found, err := sketchnet.Discover(ctx, discoverTimeout)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", errors.New("no shared drawings found on the local network")
	}

	slog.Info("Discovered sharer", slog.String("address", found[0]), slog.Int("total", len(found)))

	return found[0], nil
}
