package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/woozymasta/bcn"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/woozymasta/texsurf"
	"github.com/woozymasta/texsurf/internal/logging"
)

const version = "0.1.0"

type convertFlags struct {
	format         string
	mips           int
	persistentMips uint8
	cubemap        bool
	srgb           bool
	noCompress     bool
	fast           bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var logger hclog.Logger

	root := &cobra.Command{
		Use:           "texsurf",
		Short:         "Inspect and write texture surface containers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger = logging.NewLogger("texsurf", logging.GetLogLevel(logLevel), cmd.ErrOrStderr())
			if logger.IsDebug() {
				texsurf.SetLogger(slog.New(logging.NewSlogHandler(logger)))
			}
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(newFormatsCmd(), newInfoCmd(), newConvertCmd(func() hclog.Logger { return logger }))

	return root
}

func newFormatsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List supported pixel formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printFormats(cmd.OutOrStdout(), all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include formats chosen only by alpha resolution")

	return cmd
}

func printFormats(out io.Writer, all bool) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBPP\tBLOCK\tALPHA\tPRIMARY\tEXTENDED\tDESCRIPTION")

	for _, f := range texsurf.Formats() {
		if !all && !texsurf.IsSelectable(f) {
			continue
		}
		info := texsurf.Lookup(f)

		alpha := "-"
		if info.HasAlpha {
			alpha = info.AlphaDescriptor
		}
		primary, extended := "yes", "yes"
		if texsurf.RequiresExtendedContainer(f) {
			primary = "no"
		}
		if texsurf.IsLegacyOnly(f) {
			extended = "no"
		}

		fmt.Fprintf(tw, "%s\t%d\t%dx%d\t%s\t%s\t%s\t%s\n", info.Name, info.BitsPerPixel,
			info.BlockWidth, info.BlockHeight, alpha, primary, extended, info.Description)
	}

	return tw.Flush()
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Print the header of a texture container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := texsurf.ReadInfo(args[0])
			if err != nil {
				return err
			}
			printSurface(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func printSurface(out io.Writer, s texsurf.Surface) {
	d := s.Descriptor
	fmt.Fprintf(out, "format:          %s\n", d.Format)
	fmt.Fprintf(out, "size:            %dx%d\n", d.Width, d.Height)
	fmt.Fprintf(out, "mipmaps:         %d (max %d)\n", d.MipCount, s.MaxMipCount)
	fmt.Fprintf(out, "cubemap:         %t\n", d.Cubemap)
	fmt.Fprintf(out, "volume:          %t\n", d.Volume)
	fmt.Fprintf(out, "slices:          %d\n", d.Slices)
	fmt.Fprintf(out, "extended header: %t\n", s.Extended)
	fmt.Fprintf(out, "srgb:            %t\n", d.Flags.Has(texsurf.FlagSRGBRead))
	fmt.Fprintf(out, "flags:           0x%08x\n", uint32(d.Flags))
	fmt.Fprintf(out, "persistent mips: %d\n", d.PersistentMips)
	fmt.Fprintf(out, "min color:       %s\n", formatColor(d.MinColor))
	fmt.Fprintf(out, "max color:       %s\n", formatColor(d.MaxColor))
	fmt.Fprintf(out, "avg brightness:  %.4f\n", d.AvgBrightness)
}

func formatColor(c [4]float32) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = fmt.Sprintf("%.4f", v)
	}

	return strings.Join(parts, " ")
}

func newConvertCmd(logger func() hclog.Logger) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert INPUT OUTPUT",
		Short: "Encode an image into a texture container",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return convert(logger(), args[0], args[1], flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.format, "format", "f", "A8R8G8B8", "Requested pixel format (see 'texsurf formats')")
	f.IntVarP(&flags.mips, "mips", "m", 0, "Maximum mip levels, 0 for the full chain")
	f.Uint8Var(&flags.persistentMips, "persistent-mips", 0, "Persistent mip count stored in the header")
	f.BoolVar(&flags.cubemap, "cubemap", false, "Treat the input as a 6:1 cubemap face strip")
	f.BoolVar(&flags.srgb, "srgb", false, "Mark colour data as sRGB")
	f.BoolVar(&flags.noCompress, "no-compress", false, "Store mip blocks uncompressed")
	f.BoolVar(&flags.fast, "fast", false, "Use the fastest block encoder quality")

	return cmd
}

func convert(logger hclog.Logger, input, output string, flags convertFlags) error {
	format, ok := texsurf.LookupByName(flags.format)
	if !ok {
		return fmt.Errorf("unknown format %q", flags.format)
	}

	in, err := os.Open(input)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	img, kind, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", input, err)
	}
	logger.Info("decoded input", "path", input, "type", kind,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	opts := &texsurf.WriteOptions{
		Format:         format,
		MaxMipMaps:     flags.mips,
		PersistentMips: flags.persistentMips,
		Compress:       !flags.noCompress,
		Cubemap:        flags.cubemap,
	}
	if flags.srgb {
		opts.Flags |= texsurf.FlagSRGBRead
	}
	if flags.fast {
		opts.EncodeOptions = &bcn.EncodeOptions{QualityLevel: bcn.QualityLevelFast}
	}

	if err := texsurf.WriteImage(img, output, opts); err != nil {
		return err
	}

	s, err := texsurf.ReadInfo(output)
	if err != nil {
		return err
	}
	logger.Info("wrote container", "path", output, "format", s.Descriptor.Format.String(),
		"mipmaps", s.Descriptor.MipCount, "extended", s.Extended)

	return nil
}
