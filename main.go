package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"DraftBoard/internal/board"
	"DraftBoard/internal/config"
	"DraftBoard/internal/export"
	boardnet "DraftBoard/internal/net"
	"DraftBoard/internal/ui"
)

const browseTimeout = 3 * time.Second

var (
	// configFile is set by the --config flag.
	configFile string

	version = "dev"
)

var (
	errNoHosts = errors.New("no sharing hosts found on the local network")
	errNoScene = errors.New("host sent no scene")
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "draftboard [link]",
	Short: "DraftBoard is a small 2D drafting canvas",
	Long: `DraftBoard draws rectangles and lines on a snapping grid, with an
orthogonal mode for lines, rotation, undo and layers. With --share the live
drawing is published to read-only viewers on the local network.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A draftboard:// link opens a viewer, so the binary can be
		// registered as the link handler.
		if len(args) == 1 {
			if !strings.HasPrefix(args[0], boardnet.LinkScheme) {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			return runView(cmd, args)
		}
		return runEditor(cmd)
	},
}

var viewCmd = &cobra.Command{
	Use:   "view [link]",
	Short: "Watch a shared drawing",
	Long: `View connects to a host started with --share. The host is given as a
draftboard:// link or host:port; without one the local network is browsed
over mDNS and the first host found is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [link]",
	Short: "Save a shared drawing as PDF",
	Long: `Snapshot connects to a sharing host like view does, waits for the
current scene and writes it to a PDF file without opening a window.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshot,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "draftboard", version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default: ./draftboard.yaml or <user config dir>/draftboard/draftboard.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")

	f := rootCmd.Flags()
	f.Float64("grid-size", 20, "grid pitch in canvas units")
	f.Bool("snap", true, "snap points to the grid")
	f.Bool("grid", true, "show the grid")
	f.Bool("ortho", false, "constrain lines to horizontal or vertical")
	f.String("color", "#000000", "stroke color (#rrggbb)")
	f.String("fill", "", "rectangle fill color (#rrggbb), empty for none")
	f.Float64("rotation-step", 15, "degrees added by each rotate")
	f.Bool("share", false, "publish the drawing to viewers on the local network")
	f.Int("port", 8888, "port to share on")

	sf := snapshotCmd.Flags()
	sf.StringP("output", "o", "drawing.pdf", "PDF file to write")
	sf.Duration("timeout", 10*time.Second, "how long to wait for a scene")

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration for cmd and installs the process logger.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log := cfg.NewLogger()
	slog.SetDefault(log)
	return cfg, log, nil
}

func runEditor(cmd *cobra.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	doc, err := board.New(cfg.Options(), nil, log)
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var shareLink string
	if cfg.Share.Enabled {
		shareLink, err = startSharing(ctx, doc, cfg.Share.Port, log)
		if err != nil {
			return err
		}
	}

	log.Info("starting editor", "grid", cfg.GridSize, "snap", cfg.SnapToGrid, "ortho", cfg.OrthoMode, "share", cfg.Share.Enabled)
	ui.RunApp(doc, shareLink, log)
	return nil
}

// startSharing serves the scene over websocket and announces it over mDNS.
// Everything it starts stops when ctx is done.
func startSharing(ctx context.Context, doc *board.Document, port int, log *slog.Logger) (string, error) {
	hub := boardnet.NewHub(log)
	go func() {
		if err := hub.Serve(ctx, fmt.Sprintf(":%d", port)); err != nil {
			log.Error("share server stopped", "err", err)
		}
	}()

	pub := boardnet.NewPublisher(ctx, hub)
	doc.OnChange = pub.Offer
	doc.OnClear = pub.Clear
	pub.Offer(doc.Scene())

	server, err := boardnet.Advertise(port)
	if err != nil {
		// Viewers can still connect with the link.
		log.Warn("mdns advertise failed", "err", err)
	} else {
		context.AfterFunc(ctx, func() {
			if err := server.Shutdown(); err != nil {
				log.Warn("mdns shutdown", "err", err)
			}
		})
	}

	link := boardnet.ShareLink(boardnet.OutgoingIP(), port)
	log.Info("sharing", "link", link)
	return link, nil
}

// resolveHost takes the host from a link argument, or browses for one.
func resolveHost(args []string, log *slog.Logger) (string, error) {
	if len(args) == 1 {
		return boardnet.ParseLink(args[0])
	}
	log.Info("browsing for hosts", "service", boardnet.ServiceType, "timeout", browseTimeout)
	hosts, err := boardnet.Browse(browseTimeout)
	if err != nil {
		return "", fmt.Errorf("browse: %w", err)
	}
	if len(hosts) == 0 {
		return "", errNoHosts
	}
	return hosts[0], nil
}

func runView(cmd *cobra.Command, args []string) error {
	_, log, err := setup(cmd)
	if err != nil {
		return err
	}
	addr, err := resolveHost(args, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	log.Info("starting viewer", "addr", addr)
	ui.RunViewer(ctx, addr, boardnet.Watch, log)
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	_, log, err := setup(cmd)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	addr, err := resolveHost(args, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	sc, err := snapshot(ctx, addr, out, boardnet.Watch)
	if err != nil {
		return err
	}
	log.Info("snapshot written", "addr", addr, "file", out, "shapes", len(sc.Shapes))
	return nil
}

// snapshot waits for the first scene from addr and exports it to path.
func snapshot(ctx context.Context, addr, path string, watch func(context.Context, string, func(board.Scene)) error) (board.Scene, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		sc  board.Scene
		got bool
	)
	err := watch(ctx, addr, func(s board.Scene) {
		if !got {
			sc, got = s, true
			cancel()
		}
	})
	if !got {
		if err == nil {
			err = errNoScene
		}
		return board.Scene{}, fmt.Errorf("snapshot %s: %w", addr, err)
	}
	if err := export.ExportPDF(path, sc); err != nil {
		return board.Scene{}, fmt.Errorf("snapshot %s: %w", addr, err)
	}
	return sc, nil
}
