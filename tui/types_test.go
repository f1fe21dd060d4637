package tui

import (
	"testing"

	"github.com/jrwynneiii/nrfrx/datalink"
	"github.com/jrwynneiii/nrfrx/decode"
	"github.com/jrwynneiii/nrfrx/demod"
	"github.com/stretchr/testify/assert"
)

func TestAddressTableOrdering(t *testing.T) {
	d := NewAddressTableData(map[string]int{"e7e7e7e7": 2, "aabbccdd": 5, "01020304": 2})
	assert.Equal(t, 4, d.GetRowCount())
	assert.Equal(t, 2, d.GetColumnCount())

	var got []string
	for row := 1; row < d.GetRowCount(); row++ {
		got = append(got, d.GetCell(row, 0).Text)
	}
	assert.Equal(t, []string{"[lightskyblue]aabbccdd", "[lightskyblue]01020304", "[lightskyblue]e7e7e7e7"}, got)
	assert.Equal(t, "[green]5", d.GetCell(1, 1).Text)
}

func TestPacketTable(t *testing.T) {
	p := &PacketTableData{packets: []datalink.Packet{{
		Offset:  36,
		Address: [4]byte{0xAA, 0xBB, 0xCC, 0xDD},
		Length:  2,
		PID:     1,
		Payload: []byte{0x12, 0x34},
	}}}
	assert.Equal(t, 2, p.GetRowCount())
	assert.Equal(t, "36", p.GetCell(1, 0).Text)
	assert.Equal(t, "[lightskyblue]aabbccdd", p.GetCell(1, 1).Text)
	assert.Equal(t, "[green]1234", p.GetCell(1, 4).Text)
	assert.Equal(t, "ERROR", p.GetCell(1, 9).Text)
}

func TestStatusTable(t *testing.T) {
	s := &StatusTableData{stats: decode.Stats{
		Samples:    100,
		FinalState: demod.TimingState{SPS: 2.001},
		Datalink:   datalink.Stats{Bits: 49, Candidates: 3, CRCRejects: 2, Accepted: 1},
	}}
	assert.Equal(t, len(statusLabels), s.GetRowCount())
	assert.Equal(t, "100", s.GetCell(0, 1).Text)
	assert.Equal(t, "2", s.GetCell(4, 1).Text)
	assert.Equal(t, "2.00100", s.GetCell(6, 1).Text)
	assert.Equal(t, "ERROR", s.GetCell(len(statusLabels), 0).Text)
}

func TestGaugeValues(t *testing.T) {
	assert.Zero(t, CRCPassPct(datalink.Stats{}))
	assert.Equal(t, 25.0, CRCPassPct(datalink.Stats{Accepted: 1, CRCRejects: 3, LengthRejects: 10}))

	stats := decode.Stats{NominalSPS: 2, FinalState: demod.TimingState{SPS: 1.9975}}
	assert.InDelta(t, 50, SPSDeviationPct(stats, 0.005), 1e-9)
	stats.FinalState.SPS = 3
	assert.Equal(t, 100.0, SPSDeviationPct(stats, 0.005))
	assert.Zero(t, SPSDeviationPct(stats, 0))
}
