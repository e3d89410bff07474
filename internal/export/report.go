// Package export renders a finished session as a printable PDF survival
// report or as JSON.
package export

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"designrage/internal/game"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	stopSize  = 44.0
	pathStep  = 100.0
	perRow    = 4
	fontSize  = 9
	titleSize = 20
	labelSize = 7
	quoteLen  = 34

	// space a stop and its quote need below the stop centre
	stopFoot = stopSize/2 + 4 + 3*9

	// first stop row on a continuation page
	contTop = margin + 64
)

// Round is one answered scenario as it appears on the report path.
type Round struct {
	Number int    `json:"number"`
	Quote  string `json:"quote"`
}

// Rounds lists the completed scenarios of st in play order, with the client
// quote when the scenario is still in the pool.
func Rounds(st game.GameState) []Round {
	quotes := make(map[int]string, len(st.AvailableScenarios))
	for _, sc := range st.AvailableScenarios {
		quotes[sc.ID] = sc.ClientQuote
	}
	out := make([]Round, 0, len(st.CompletedScenarios))
	for i, id := range st.CompletedScenarios {
		q, ok := quotes[id]
		if !ok {
			q = fmt.Sprintf("Scenario #%d", id)
		}
		out = append(out, Round{Number: i + 1, Quote: q})
	}
	return out
}

// PDF returns an A4 survival report: title, verdict, both meters and the
// path of rounds played.
// Long sessions continue the path on further pages.
func PDF(r game.Result, rounds []Round) ([]byte, error) {
	pdf := render(r, rounds)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(r game.Result, rounds []Round) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	newPage(pdf)

	pdf.SetTextColor(40, 30, 60)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin+12, margin+16)
	pdf.CellFormat(pageW-2*margin-24, 24, "Design Rage: Survival Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetX(margin + 12)
	pdf.CellFormat(pageW-2*margin-24, 20, tr(r.Title), "", 1, "C", false, 0, "")

	v := game.VerdictFor(r)
	pdf.SetFont("Helvetica", "I", fontSize+1)
	pdf.SetX(margin + 24)
	pdf.MultiCell(pageW-2*margin-48, 13, tr(v.Message), "", "C", false)

	y := pdf.GetY() + 14
	drawMeter(pdf, margin+40, y, "Stress", r.FinalStress, [3]int{200, 60, 60})
	drawMeter(pdf, margin+40, y+34, "Reputation", r.FinalReputation, [3]int{60, 140, 80})

	y += 78
	pdf.SetFont("Helvetica", "", fontSize+1)
	pdf.SetTextColor(40, 30, 60)
	for _, line := range []string{
		fmt.Sprintf("Total score: %d", r.TotalScore),
		fmt.Sprintf("Rounds survived: %d", r.RoundsCompleted),
		fmt.Sprintf("Chaos events: %d", r.ChaosEventsCount),
		"Completed: " + r.CompletedAt.Format("2006-01-02 15:04 MST"),
	} {
		pdf.SetXY(margin+40, y)
		pdf.CellFormat(300, 14, line, "", 0, "L", false, 0, "")
		y += 16
	}

	drawPath(pdf, tr, y+30, rounds)
	return pdf
}

// newPage starts a page on the paper background inside the wavy frame.
func newPage(pdf *gofpdf.Fpdf) {
	pdf.AddPage()
	pdf.SetFillColor(250, 246, 236)
	pdf.Rect(0, 0, pageW, pageH, "F")
	drawWavyBorder(pdf)
}

func drawMeter(pdf *gofpdf.Fpdf, x, y float64, label string, value int, rgb [3]int) {
	const barW, barH = 300.0, 14.0
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetTextColor(40, 30, 60)
	pdf.SetXY(x, y)
	pdf.CellFormat(80, barH, label, "", 0, "L", false, 0, "")
	pdf.SetDrawColor(40, 30, 60)
	pdf.SetFillColor(230, 225, 215)
	pdf.Rect(x+80, y, barW, barH, "FD")
	fill := barW * float64(game.Clamp(value)) / game.MeterMax
	if fill > 0 {
		pdf.SetFillColor(rgb[0], rgb[1], rgb[2])
		pdf.Rect(x+80, y, fill, barH, "F")
	}
	pdf.SetXY(x+80+barW+8, y)
	pdf.CellFormat(40, barH, fmt.Sprintf("%d%%", value), "", 0, "L", false, 0, "")
}

// drawPath lays the rounds out as a winding dashed path, four per row,
// adding pages when the rows reach the bottom frame.
func drawPath(pdf *gofpdf.Fpdf, tr func(string) string, top float64, rounds []Round) {
	if len(rounds) == 0 {
		pdf.SetFont("Helvetica", "I", fontSize)
		pdf.SetXY(margin+40, top)
		pdf.CellFormat(300, 14, "No rounds played.", "", 0, "L", false, 0, "")
		return
	}
	for len(rounds) > 0 {
		n := min(perRow*rowsBelow(top), len(rounds))
		drawStops(pdf, tr, top, rounds[:n])
		rounds = rounds[n:]
		if len(rounds) == 0 {
			break
		}
		newPage(pdf)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(40, 30, 60)
		pdf.SetXY(margin+12, margin+16)
		pdf.CellFormat(pageW-2*margin-24, 20, "Survival path (continued)", "", 0, "C", false, 0, "")
		top = contTop
	}
}

// rowsBelow is how many stop rows fit between top and the bottom frame.
func rowsBelow(top float64) int {
	room := pageH - margin - stopFoot - top
	if room < 0 {
		return 0
	}
	return int(room/pathStep) + 1
}

func drawStops(pdf *gofpdf.Fpdf, tr func(string) string, top float64, rounds []Round) {
	if len(rounds) == 0 {
		return
	}
	x0 := float64(margin) + 80
	pos := make([][2]float64, len(rounds))
	for i := range rounds {
		row, col := i/perRow, i%perRow
		if row%2 == 1 {
			col = perRow - 1 - col
		}
		pos[i] = [2]float64{x0 + float64(col)*(pathStep+14), top + float64(row)*pathStep}
	}

	pdf.SetDrawColor(120, 60, 160)
	pdf.SetLineWidth(2)
	pdf.SetDashPattern([]float64{8, 5}, 0)
	for i := 0; i < len(pos)-1; i++ {
		pdf.Line(pos[i][0], pos[i][1], pos[i+1][0], pos[i+1][1])
	}
	pdf.SetDashPattern([]float64{}, 0)

	for i, rd := range rounds {
		x, y := pos[i][0], pos[i][1]
		pdf.SetLineWidth(1.2)
		pdf.SetDrawColor(40, 30, 60)
		pdf.SetFillColor(255, 255, 255)
		pdf.Circle(x, y, stopSize/2, "FD")
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(120, 60, 160)
		pdf.SetXY(x-stopSize/2, y-7)
		pdf.CellFormat(stopSize, 14, fmt.Sprint(rd.Number), "", 0, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", labelSize)
		pdf.SetTextColor(40, 30, 60)
		pdf.SetXY(x-pathStep/2, y+stopSize/2+4)
		pdf.MultiCell(pathStep, 9, tr(shorten(rd.Quote, quoteLen)), "", "C", false)
	}
	pdf.SetLineWidth(1)
}

func shorten(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// drawWavyBorder draws a hand-drawn looking frame around the page.
func drawWavyBorder(pdf *gofpdf.Fpdf) {
	pts := wavyRectPoints(margin, margin, pageW-2*margin, pageH-2*margin, 12, 3)
	pdf.SetDrawColor(40, 30, 60)
	pdf.SetLineWidth(2)
	pdf.Polygon(pts, "D")
	pdf.SetLineWidth(1)
}

// wavyRectPoints returns polygon points for a rectangle with a sinusoidal
// wobble along each side.
func wavyRectPoints(x, y, w, h float64, steps int, amp float64) []gofpdf.PointType {
	pts := make([]gofpdf.PointType, 0, steps*4+1)
	edge := func(fromX, fromY, dx, dy float64, fx, fy float64, start int) {
		for i := start; i <= steps; i++ {
			t := float64(i) / float64(steps)
			pts = append(pts, gofpdf.PointType{
				X: fromX + t*dx + amp*math.Sin(float64(i)*fx),
				Y: fromY + t*dy + amp*math.Cos(float64(i)*fy),
			})
		}
	}
	edge(x, y, w, 0, 0.7, 0.5, 0)
	edge(x+w, y, 0, h, 0.6, 0.4, 1)
	edge(x+w, y+h, -w, 0, 0.8, 0.3, 1)
	edge(x, y+h, 0, -h, 0.5, 0.6, 1)
	return pts
}
