package viz

import (
	"bytes"
	"image/color"
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/wbhill/beacon/pkg/dsp/filters/fir"
)

const fftAvg = 0.10 // exponential smoothing factor for displayed power

type PlotOptions func(p *plot.Plot)

func plotWithDefaults() *plot.Plot {
	p := plot.New()
	p.BackgroundColor = color.Black
	p.Title.TextStyle.Color = color.White
	p.Y.Label.TextStyle.Color = color.White
	p.Y.Color = color.White
	p.X.Label.TextStyle.Color = color.White
	p.X.Color = color.White
	p.Legend.TextStyle.Color = color.White
	p.X.Tick.Color = color.White
	p.Y.Tick.Color = color.White
	p.X.Tick.Label.Color = color.White
	p.Y.Tick.Label.Color = color.White

	return p
}

// CS8Plotter renders a power spectrum of the most recent interleaved
// signed 8-bit I/Q samples pushed to it. Appends come from the streaming
// callback, reads from the HTTP server, hence the lock.
type CS8Plotter struct {
	mu           sync.Mutex
	buf          []complex64
	sampleRate   int
	len          int
	averagePower []float64
	name         string
	plotOptions  []PlotOptions
}

func NewCS8Plotter(name string, len, sampleRate int) *CS8Plotter {
	return &CS8Plotter{
		buf:          make([]complex64, len),
		averagePower: make([]float64, len),
		len:          len,
		sampleRate:   sampleRate,
		name:         name,
	}
}

func (p *CS8Plotter) Name() string {
	return p.name
}

func (p *CS8Plotter) AddPlotOption(opt PlotOptions) {
	p.plotOptions = append(p.plotOptions, opt)
}

// AppendCS8 pushes interleaved (I, Q) int8 bytes, keeping the most recent
// window's worth.
func (p *CS8Plotter) AppendCS8(iq []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pairs := len(iq) / 2
	if pairs > p.len {
		iq = iq[2*(pairs-p.len):]
		pairs = p.len
	}

	copy(p.buf, p.buf[pairs:])
	for i := 0; i < pairs; i++ {
		p.buf[p.len-pairs+i] = complex(
			float32(int8(iq[2*i]))/128.0,
			float32(int8(iq[2*i+1]))/128.0)
	}
}

func (p *CS8Plotter) GetImage() *ImageContainer {
	pl := plotWithDefaults()
	pl.Title.Text = p.name
	pl.Y.Label.Text = "Power (dB)"
	pl.X.Label.Text = "Frequency"
	pl.Y.Max = 0
	pl.Y.Min = -100

	for _, opt := range p.plotOptions {
		opt(pl)
	}

	pl.Add(plotter.NewGrid())

	p.mu.Lock()
	data := make([]complex128, p.len)
	for i := range p.buf {
		data[i] = complex128(p.buf[i])
	}
	p.mu.Unlock()

	win := fir.BlackmanWindow(p.len)
	for i := range data {
		data[i] *= complex(float64(win[i])/(0.42*float64(p.len)), 0)
	}

	f := fourier.NewCmplxFFT(p.len)
	coeffs := f.Coefficients(nil, data)

	pts := make(plotter.XYs, len(coeffs))
	p.mu.Lock()
	for i := 0; i < len(coeffs); i++ {
		shiftIdx := f.ShiftIdx(i)
		freq := f.Freq(shiftIdx) * float64(p.sampleRate)
		mag := cmplx.Abs(coeffs[shiftIdx])

		p.averagePower[i] = (1.0-fftAvg)*p.averagePower[i] + fftAvg*mag
		db := -100.0
		if p.averagePower[i] > 0 {
			db = 20 * math.Log10(p.averagePower[i])
		}
		pts[i] = plotter.XY{X: freq, Y: db}
	}
	p.mu.Unlock()

	plotutil.AddLines(pl, "frequency", pts)

	var imageData bytes.Buffer
	w, err := pl.WriterTo(8*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		panic(err)
	}
	w.WriteTo(&imageData)

	return &ImageContainer{name: p.name, data: imageData.Bytes()}
}
