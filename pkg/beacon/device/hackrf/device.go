package hackrf

import (
	"context"

	"github.com/samuel/go-hackrf/hackrf"
	"github.com/wbhill/beacon/pkg/beacon/device"
)

const maxSampleRate = 20e6

type HackRFDevice struct {
	device *hackrf.Device

	txvgaGain int
	ampEnable bool

	fill device.FillFunc
	ctx  context.Context
}

func NewHackRFDevice(txvgaGain int, ampEnable bool) (*HackRFDevice, error) {
	dev, err := hackrf.Open()
	if err != nil {
		return nil, err
	}

	return &HackRFDevice{
		device:    dev,
		txvgaGain: txvgaGain,
		ampEnable: ampEnable,
	}, nil
}

func (h *HackRFDevice) MaxSampleRate() int {
	return maxSampleRate
}

func (h *HackRFDevice) callback(buf []byte) error {
	select {
	case <-h.ctx.Done():
		return h.ctx.Err()
	default:
	}
	return h.fill(buf)
}

// Start configures the transmitter and begins streaming. The setup order
// follows libhackrf convention: rate and gain before StartTX, frequency and
// amp after.
func (h *HackRFDevice) Start(ctx context.Context, centerFreq int, sampleRate int, fill device.FillFunc) error {
	h.ctx = ctx
	h.fill = fill

	if err := h.device.SetSampleRateManual(sampleRate, 1); err != nil {
		return err
	}
	if err := h.device.SetBasebandFilterBandwidth(sampleRate); err != nil {
		return err
	}
	if err := h.device.SetTXVGAGain(h.txvgaGain); err != nil {
		return err
	}
	if err := h.device.StartTX(h.callback); err != nil {
		return err
	}
	if err := h.device.SetFreq(uint64(centerFreq)); err != nil {
		return err
	}
	if h.ampEnable {
		if err := h.device.SetAmpEnable(true); err != nil {
			return err
		}
	}
	return nil
}

func (h *HackRFDevice) Stop() error {
	return h.device.StopTX()
}
