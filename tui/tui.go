package tui

import (
	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/nrfrx/config"
	"github.com/jrwynneiii/nrfrx/datalink"
	"github.com/jrwynneiii/nrfrx/decode"
	"github.com/navidys/tvxwidgets"
	"github.com/rivo/tview"
)

type View struct {
	Stats   decode.Stats
	Packets []datalink.Packet
	// Trace is the start of the interpolated signal.
	Trace []float64
	Demod config.DemodConf
}

var LogOut *tview.TextView

func Show(v View, tuiConf config.TuiConf) error {
	app := tview.NewApplication()

	LogOut = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	addressTable := tview.NewTable().SetContent(NewAddressTableData(v.Stats.Datalink.PerAddress))
	statusTable := tview.NewTable().SetContent(&StatusTableData{stats: v.Stats})
	packetTable := tview.NewTable().SetContent(&PacketTableData{packets: v.Packets})

	signalPlot := tvxwidgets.NewPlot()
	signalPlot.SetLineColor([]tcell.Color{tcell.ColorLightSkyBlue})
	signalPlot.SetMarker(tvxwidgets.PlotMarkerBraille)

	crcGauge := tvxwidgets.NewUtilModeGauge()
	crcGauge.SetLabel("CRC Pass Rate:        ")
	crcGauge.SetLabelColor(tcell.ColorLightSkyBlue)
	crcGauge.SetWarnPercentage(101)
	crcGauge.SetCritPercentage(101)
	crcGauge.SetEmptyColor(tcell.ColorBlack)
	crcGauge.SetBorder(false)
	crcGauge.SetValue(CRCPassPct(v.Stats.Datalink))

	spsGauge := tvxwidgets.NewUtilModeGauge()
	spsGauge.SetLabel("SPS Deviation:        ")
	spsGauge.SetLabelColor(tcell.ColorLightSkyBlue)
	spsGauge.SetWarnPercentage(75)
	spsGauge.SetCritPercentage(99)
	spsGauge.SetEmptyColor(tcell.ColorBlack)
	spsGauge.SetBorder(false)
	spsGauge.SetValue(SPSDeviationPct(v.Stats, v.Demod.SPSTolerance))

	gaugeBox := tview.NewFlex()
	gaugeBox.SetDirection(tview.FlexRow)
	gaugeBox.AddItem(crcGauge, 0, 1, false)
	gaugeBox.AddItem(spsGauge, 0, 1, false)
	gaugeBox.SetTitle("Signal Stats")
	gaugeBox.SetBorder(true)

	LogOut.SetChangedFunc(func() {
		LogOut.ScrollToEnd()
		app.Draw()
	})

	LogOut.SetBorder(true).SetTitle("Log Output")
	log.SetOutput(LogOut)
	addressTable.SetSelectable(false, false).SetBorder(true).SetTitle("Per-Address Stats")
	statusTable.SetSelectable(false, false).SetBorder(true).SetTitle("Decoder Status")
	packetTable.SetSelectable(true, false).SetFixed(1, 0).SetBorder(true).SetTitle("Packets")

	signalPlot.SetBorder(true)
	signalPlot.SetTitle("Interpolated Signal")
	if len(v.Trace) > 0 {
		signalPlot.SetData([][]float64{v.Trace})
	}

	page := tview.NewFlex().SetDirection(tview.FlexColumn)

	leftCol := tview.NewFlex().SetDirection(tview.FlexRow)
	leftCol.AddItem(addressTable, 0, 3, false)
	leftCol.AddItem(statusTable, 0, 2, false)

	rightCol := tview.NewFlex().SetDirection(tview.FlexRow)
	rightCol.AddItem(gaugeBox, 4, 0, false)
	rightCol.AddItem(signalPlot, 0, 2, false)
	rightCol.AddItem(packetTable, 0, 3, true)
	if tuiConf.EnableLogOutput {
		rightCol.AddItem(LogOut, 0, 1, false)
	}

	page.AddItem(leftCol, 0, 2, false)
	page.AddItem(rightCol, 0, 5, true)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	log.Infof("Decoded %d packets from %s", len(v.Packets), v.Stats.Input)
	return app.SetRoot(page, true).SetFocus(packetTable).EnableMouse(true).Run()
}
