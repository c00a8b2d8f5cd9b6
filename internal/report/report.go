// Package report renders a weekly stats report as a PNG image.
//
// Render is a pure function of its input: no persistence, no network,
// no clock. The layout is fixed at 800x420 with a dark background, a
// summary column on the left and a horizontal bar chart on the right.
package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/mkarim/pettrack/internal/service"
)

const (
	canvasWidth  = 800
	canvasHeight = 420

	titleSize = 26
	bodySize  = 18

	summaryX     = 20
	summaryY     = 110
	summaryStep  = 28
	barOriginX   = 400
	barOriginY   = 140
	barMaxWidth  = 320
	barHeight    = 30
	barStep      = 60
	footerMargin = 40
)

var (
	background = color.RGBA{R: 0x0d, G: 0x1b, B: 0x2a, A: 0xff}
	accent     = color.RGBA{R: 0xa1, G: 0xc6, B: 0xea, A: 0xff}
	barFill    = color.RGBA{R: 0x1b, G: 0x9a, B: 0xaa, A: 0xff}
	textWhite  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Render draws the weekly report onto a fixed 800x420 canvas and
// returns the encoded PNG bytes.
func Render(rep *service.WeeklyReport) ([]byte, error) {
	if rep == nil || len(rep.Days) == 0 {
		return nil, fmt.Errorf("report: empty weekly report")
	}

	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	titleFace, bodyFace := loadFaces()

	drawText(img, summaryX, 20, titleFace, textWhite, "Pet Time Tracker")
	drawText(img, summaryX, 60, bodyFace, accent,
		fmt.Sprintf("Week: %s - %s", rep.Start, rep.End))

	var totalWalk, totalPlay, totalTreat float64
	streakBest := 0
	for _, d := range rep.Days {
		totalWalk += d.WalkMin
		totalPlay += d.PlayMin
		totalTreat += d.TreatCount
		if d.StreakInfo > streakBest {
			streakBest = d.StreakInfo
		}
	}
	change := rep.Days[0].ChangeVsLastWeek

	summary := []string{
		fmt.Sprintf("Walk: %.0f min", totalWalk),
		fmt.Sprintf("Play: %.0f min", totalPlay),
		fmt.Sprintf("Treats: %.0f times", totalTreat),
		fmt.Sprintf("Streak best: %d days", streakBest),
	}
	if change != nil {
		arrow := "↑"
		if *change < 0 {
			arrow = "↓"
		}
		summary = append(summary,
			fmt.Sprintf("Vs last week: %s%.1f%%", arrow, math.Abs(*change)*100))
	}

	y := summaryY
	for _, line := range summary {
		drawText(img, summaryX, y, bodyFace, textWhite, line)
		y += summaryStep
	}

	// Bars are scaled against the combined walk+play total, floored at
	// 1 so an empty week still divides cleanly.
	maxMin := math.Max(totalWalk+totalPlay, 1)
	bars := []struct {
		label string
		value float64
	}{
		{"Walk", totalWalk},
		{"Play", totalPlay},
		{"Treat", totalTreat},
	}
	for i, bar := range bars {
		barLen := int(bar.value / maxMin * barMaxWidth)
		yPos := barOriginY + i*barStep
		rect := image.Rect(barOriginX, yPos, barOriginX+barLen, yPos+barHeight)
		draw.Draw(img, rect, &image.Uniform{C: barFill}, image.Point{}, draw.Src)
		drawText(img, barOriginX+barLen+10, yPos, bodyFace, textWhite,
			fmt.Sprintf("%s: %.0f", bar.label, bar.value))
	}

	drawText(img, summaryX, canvasHeight-footerMargin, bodyFace, accent, "#PetTime")

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("report: encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// loadFaces parses the bundled Go typefaces. If parsing fails, both
// roles fall back to the built-in bitmap font so rendering always
// succeeds.
func loadFaces() (title, body font.Face) {
	titleFont, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return basicfont.Face7x13, basicfont.Face7x13
	}
	bodyFont, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13, basicfont.Face7x13
	}

	titleFace, err := opentype.NewFace(titleFont, &opentype.FaceOptions{
		Size: titleSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13, basicfont.Face7x13
	}
	bodyFace, err := opentype.NewFace(bodyFont, &opentype.FaceOptions{
		Size: bodySize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return titleFace, basicfont.Face7x13
	}

	return titleFace, bodyFace
}

// drawText draws a string with (x, y) as the top-left corner of the
// line box, converting to the baseline position the font drawer wants.
func drawText(dst draw.Image, x, y int, face font.Face, c color.Color, text string) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
}
