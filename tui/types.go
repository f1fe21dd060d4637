package tui

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/nrfrx/datalink"
	"github.com/jrwynneiii/nrfrx/decode"
	"github.com/rivo/tview"
)

type AddressTableData struct {
	tview.TableContentReadOnly
	rows []AddressRow
}

type AddressRow struct {
	Address    string
	NumPackets int
}

func NewAddressTableData(perAddress map[string]int) *AddressTableData {
	d := &AddressTableData{}
	for addr, n := range perAddress {
		d.rows = append(d.rows, AddressRow{Address: addr, NumPackets: n})
	}
	sort.Slice(d.rows, func(i, j int) bool {
		if d.rows[i].NumPackets != d.rows[j].NumPackets {
			return d.rows[i].NumPackets > d.rows[j].NumPackets
		}
		return d.rows[i].Address < d.rows[j].Address
	})
	return d
}

func (d *AddressTableData) GetRowCount() int {
	return len(d.rows) + 1
}

func (d *AddressTableData) GetColumnCount() int {
	return 2
}

func (d *AddressTableData) GetCell(row, column int) *tview.TableCell {
	if row == 0 {
		switch column {
		case 0:
			return tview.NewTableCell("[lightskyblue]Address ")
		case 1:
			return tview.NewTableCell("[green]Packets RX'd")
		}
		return tview.NewTableCell("ERROR")
	}
	r := d.rows[row-1]
	switch column {
	case 0:
		return tview.NewTableCell(fmt.Sprintf("[lightskyblue]%s", r.Address))
	case 1:
		return tview.NewTableCell(fmt.Sprintf("[green]%d", r.NumPackets))
	}
	return tview.NewTableCell("ERROR")
}

type StatusTableData struct {
	tview.TableContentReadOnly
	stats decode.Stats
}

var statusLabels = []string{
	"Samples:",
	"Bits:",
	"Candidates:",
	"Length rejects:",
	"CRC rejects:",
	"Packets accepted:",
	"Final SPS:",
}

func (s *StatusTableData) GetRowCount() int {
	return len(statusLabels)
}

func (s *StatusTableData) GetColumnCount() int {
	return 2
}

func (s *StatusTableData) GetCell(row, column int) *tview.TableCell {
	if row < 0 || row >= len(statusLabels) {
		return tview.NewTableCell("ERROR")
	}
	if column == 0 {
		return tview.NewTableCell(statusLabels[row])
	}

	dl := s.stats.Datalink
	switch row {
	case 0:
		return tview.NewTableCell(fmt.Sprintf("%d", s.stats.Samples))
	case 1:
		return tview.NewTableCell(fmt.Sprintf("%d", dl.Bits))
	case 2:
		return tview.NewTableCell(fmt.Sprintf("%d", dl.Candidates))
	case 3:
		return tview.NewTableCell(fmt.Sprintf("%d", dl.LengthRejects))
	case 4:
		return tview.NewTableCell(fmt.Sprintf("%d", dl.CRCRejects))
	case 5:
		color := tcell.ColorGreen
		if dl.Accepted == 0 {
			color = tcell.ColorRed
		}
		return tview.NewTableCell(fmt.Sprintf("%d", dl.Accepted)).SetTextColor(color)
	case 6:
		return tview.NewTableCell(fmt.Sprintf("%.5f", s.stats.FinalState.SPS))
	}
	return tview.NewTableCell("ERROR")
}

type PacketTableData struct {
	tview.TableContentReadOnly
	packets []datalink.Packet
}

func (p *PacketTableData) GetRowCount() int {
	return len(p.packets) + 1
}

func (p *PacketTableData) GetColumnCount() int {
	return 5
}

func (p *PacketTableData) GetCell(row, column int) *tview.TableCell {
	if row == 0 {
		headers := []string{"[white]Bit ", "[lightskyblue]Address ", "[white]PID ", "[white]Len ", "[green]Payload"}
		if column < len(headers) {
			return tview.NewTableCell(headers[column])
		}
		return tview.NewTableCell("ERROR")
	}
	pkt := p.packets[row-1]
	switch column {
	case 0:
		return tview.NewTableCell(fmt.Sprintf("%d", pkt.Offset))
	case 1:
		return tview.NewTableCell(fmt.Sprintf("[lightskyblue]%s", pkt.AddressHex()))
	case 2:
		return tview.NewTableCell(fmt.Sprintf("%d", pkt.PID))
	case 3:
		return tview.NewTableCell(fmt.Sprintf("%d", pkt.Length))
	case 4:
		return tview.NewTableCell(fmt.Sprintf("[green]%s", pkt.PayloadHex()))
	}
	return tview.NewTableCell("ERROR")
}

// CRCPassPct is the share of parsed candidates that passed the CRC.
func CRCPassPct(dl datalink.Stats) float64 {
	tried := dl.Accepted + dl.CRCRejects
	if tried == 0 {
		return 0
	}
	return 100 * float64(dl.Accepted) / float64(tried)
}

// SPSDeviationPct is how far the final SPS estimate sits from nominal, as a
// share of the allowed tolerance.
func SPSDeviationPct(stats decode.Stats, tolerance float64) float64 {
	if tolerance <= 0 {
		return 0
	}
	dev := stats.FinalState.SPS - stats.NominalSPS
	if dev < 0 {
		dev = -dev
	}
	return min(100, 100*dev/tolerance)
}
