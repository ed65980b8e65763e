//go:build tinygo

package main

import (
	"machine"

	"github.com/ajanata/textbuf"
	"tinygo.org/x/drivers/ssd1306"

	"github.com/ajanata/netclock/internal/sequencer"
)

// initDisplay brings up the optional boot-progress OLED. Any failure just
// means booting without a display.
func initDisplay() sequencer.Display {
	err := machine.I2C0.Configure(machine.I2CConfig{
		SCL:       machine.I2C0_SCL_PIN,
		SDA:       machine.I2C0_SDA_PIN,
		Frequency: machine.MHz,
	})
	if err != nil {
		return nil
	}

	dev := ssd1306.NewI2C(machine.I2C0)
	dev.Configure(ssd1306.Config{Width: 128, Height: 64, Address: 0x3D, VccState: ssd1306.SWITCHCAPVCC})
	dev.ClearBuffer()
	dev.ClearDisplay()

	buf, err := textbuf.New(&dev, textbuf.FontSize6x8)
	if err != nil {
		return nil
	}
	return buf
}
