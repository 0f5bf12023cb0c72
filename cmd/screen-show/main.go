// Command screen-show loads an image into an off-screen buffer, filters it and presents it on a
// framebuffer or a SPI/I²C display panel.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/screen"
	"github.com/BeatGlow/screen/draw"
	"github.com/BeatGlow/screen/framebuffer"
	"github.com/BeatGlow/screen/internal/config"
	"github.com/BeatGlow/screen/panel"
)

// output is a presentation target.
type output interface {
	screen.Surface
	Bounds() image.Rectangle
	String() string
	Close() error
}

func main() {
	if err := run(); err != nil {
		fatal(err)
	}
}

// options are the command line settings not covered by the config file.
type options struct {
	in        string
	raw       string
	label     string
	labelSize float64
	border    bool
}

func run() error {
	configFile := flag.String("config", "", "Path to config.json file")
	inFlag := flag.String("in", "", "Input image (png, jpeg, gif, bmp, webp, tga) or raw RGB file, empty draws a test pattern")
	rawFlag := flag.String("raw", "", "Treat the input as raw RGB bytes of the given WxH size")
	filterFlag := flag.String("filter", "", "Comma separated filters to apply in order: smooth, smooth5, quantize")
	labelFlag := flag.String("label", "", "Text to draw into the top-left corner")
	labelSizeFlag := flag.Float64("label-size", 12, "Label font size in pixels")
	borderFlag := flag.Bool("border", false, "Draw a border around the image")
	targetFlag := flag.String("target", "", "Output: fb, st7789, ssd1306 or sh1106 (default: fb)")
	fbFlag := flag.String("fb", "", "Framebuffer device (default: /dev/fb0)")
	busFlag := flag.String("bus", "", "Panel bus: spi or i2c")
	widthFlag := flag.Int("width", 0, "Panel width")
	heightFlag := flag.Int("height", 0, "Panel height")
	rotateFlag := flag.String("rotate", "", "Panel rotation")
	stretchFlag := flag.Bool("stretch", false, "Stretch the image to the whole output")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return err
		}
	}
	rotation, err := parseRotation(*rotateFlag)
	if err != nil {
		return err
	}
	cfg.Resolve(config.Flags{
		Target:   *targetFlag,
		Device:   *fbFlag,
		Bus:      *busFlag,
		Width:    *widthFlag,
		Height:   *heightFlag,
		Rotation: rotation,
		Filters:  *filterFlag,
		Stretch:  *stretchFlag,
		Debug:    *debugFlag,
	})
	if err = cfg.Validate(); err != nil {
		return err
	}
	if cfg.Debug {
		screen.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	out, err := openOutput(&cfg)
	if err != nil {
		return err
	}
	fmt.Printf("using output: %s\n", out)

	return show(out, &cfg, options{
		in:        *inFlag,
		raw:       *rawFlag,
		label:     *labelFlag,
		labelSize: *labelSizeFlag,
		border:    *borderFlag,
	})
}

// show renders the input onto out and closes it, whether or not rendering succeeded.
func show(out output, cfg *config.Config, opts options) (err error) {
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	var b screen.Buffer
	defer b.Close()
	if err = load(&b, opts.in, opts.raw, out.Bounds().Size()); err != nil {
		return err
	}
	applyFilters(&b, cfg.Filters)

	if opts.label != "" || opts.border {
		c, err := b.AcquireDrawingContext()
		if err != nil {
			return err
		}
		if opts.border {
			draw.Rectangle(c, c.Bounds(), color.White)
		}
		if opts.label != "" {
			if err = draw.Text(c, image.Pt(2, 2), opts.label, opts.labelSize, color.White); err != nil {
				return err
			}
		}
	}

	if cfg.Stretch {
		return b.PresentStretchedRect(out, out.Bounds())
	}
	return b.Present(out, center(out.Bounds(), b.Bounds().Size()))
}

func parseRotation(s string) (int, error) {
	switch s {
	case "", "no", "0":
		return 0, nil
	case "90", "right", "cw":
		return 90, nil
	case "180", "flip":
		return 180, nil
	case "270", "left", "ccw":
		return 270, nil
	default:
		return 0, fmt.Errorf("invalid rotation %q specified", s)
	}
}

func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, expected WxH", s)
	}
	if w, err = strconv.Atoi(ws); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if h, err = strconv.Atoi(hs); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return w, h, nil
}

// load fills b from the input file, or with a test pattern of the given size.
func load(b *screen.Buffer, name, raw string, size image.Point) error {
	if name == "" {
		return pattern(b, size.X, size.Y)
	}
	if raw != "" {
		w, h, err := parseSize(raw)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		return b.CreateRGB(data, w, h)
	}

	ext := strings.ToLower(filepath.Ext(name))
	decode, ok := decoders[ext]
	if !ok {
		return fmt.Errorf("decode %s: unsupported image type %q", name, ext)
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	img, err := decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	fmt.Printf("loaded %s image %s\n", ext[1:], img.Bounds().Size())
	return b.CreateFromImage(img)
}

// decoders by file extension. The tga package registers itself with image.Decode without a magic
// string and would claim every input, so formats are never sniffed.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// pattern draws a color gradient.
func pattern(b *screen.Buffer, w, h int) error {
	if err := b.Create(w, h); err != nil {
		return err
	}
	c, err := b.AcquireDrawingContext()
	if err != nil {
		return err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.Set(x, y, color.RGBA{
				R: uint8(x + y),
				G: uint8(x - y),
				B: uint8(y - x),
				A: 0xff,
			})
		}
	}
	b.ReleaseDrawingContext()
	return nil
}

func applyFilters(b *screen.Buffer, filters []string) {
	for _, f := range filters {
		switch f {
		case config.FilterSmooth:
			b.Smooth()
		case config.FilterSmoothWeighted:
			b.SmoothWeighted()
		case config.FilterQuantize:
			b.Quantize()
		}
	}
}

func center(r image.Rectangle, size image.Point) image.Point {
	return image.Pt(r.Min.X+(r.Dx()-size.X)/2, r.Min.Y+(r.Dy()-size.Y)/2)
}

func openOutput(cfg *config.Config) (output, error) {
	if cfg.Target == config.TargetFrameBuffer {
		fb, err := framebuffer.Open(cfg.Device)
		if err != nil {
			return nil, err
		}
		return fb, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, err
	}

	var (
		conn panel.Conn
		err  error
	)
	switch cfg.Bus {
	case config.BusSPI:
		conn, err = panel.OpenSPI(&panel.SPIConfig{
			Bus:     cfg.SPI.Bus,
			Device:  cfg.SPI.Device,
			SpeedHz: cfg.SPI.SpeedHz,
			Reset:   gpioreg.ByName(cfg.SPI.Reset),
			DC:      gpioreg.ByName(cfg.SPI.DC),
			CS:      gpioreg.ByName(cfg.SPI.CS),
		})
	case config.BusI2C:
		conn, err = panel.OpenI2C(&panel.I2CConfig{
			Bus:   cfg.I2C.Bus,
			Addr:  cfg.I2C.Addr,
			Reset: gpioreg.ByName(cfg.I2C.Reset),
		})
	default:
		err = fmt.Errorf("unsupported bus type %q", cfg.Bus)
	}
	if err != nil {
		return nil, err
	}
	fmt.Printf("using connection: %s\n", conn)

	pc := &panel.Config{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Rotation:  panel.Rotation(cfg.Rotation / 90),
		Backlight: gpioreg.ByName(cfg.Backlight),
	}
	var out output
	switch cfg.Target {
	case config.TargetST7789:
		out, err = panel.NewST7789(conn, pc)
	case config.TargetSSD1306:
		out, err = panel.NewSSD1306(conn, pc)
	case config.TargetSH1106:
		out, err = panel.NewSH1106(conn, pc)
	default:
		err = errors.ErrUnsupported
	}
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return out, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
