package main

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"os"
	"runtime/pprof"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/nrfrx/config"
	"github.com/jrwynneiii/nrfrx/datalink"
	"github.com/jrwynneiii/nrfrx/decode"
	"github.com/jrwynneiii/nrfrx/radio"
	"github.com/jrwynneiii/nrfrx/store"
	"github.com/jrwynneiii/nrfrx/tui"
	"github.com/knadh/koanf/v2"
)

var configFile = koanf.New(".")

func main() {
	flags := kong.Parse(&cli)
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if cli.Profile {
		prof, err := os.Create("./cpu.pprof")
		if err != nil {
			log.Fatalf("Could not create profile: %v", err)
		}
		pprof.StartCPUProfile(prof)
		defer pprof.StopCPUProfile()
	}

	path := cli.Config
	if path == "" {
		path = config.FindConfigPath()
	}
	if err := config.Load(configFile, path); err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	conf := config.FromKoanf(configFile)

	switch flags.Command() {
	case "decode":
		runDecode(conf)
	case "probe":
		runProbe(conf)
	case "synth":
		runSynth()
	case "history":
		runHistory()
	default:
		log.Info("Command not recognized")
	}
}

func runDecode(conf config.Config) {
	if cli.Decode.File != "" {
		conf.Input.Path = cli.Decode.File
	}
	if cli.Decode.SPS != 0 {
		conf.Demod.SPS = cli.Decode.SPS
	}
	if cli.Decode.Interpolate != "" {
		conf.Demod.Interpolate = cli.Decode.Interpolate
	}
	if cli.Decode.DB != "" {
		conf.Output.Database = cli.Decode.DB
	}
	if cli.Decode.Report != "" {
		conf.Output.Report = cli.Decode.Report
	}
	if conf.Input.Path == "" {
		log.Fatal("No input recording given (use --file or input.path)")
	}
	if err := conf.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	rec, err := radio.Open(conf.Input.Path)
	if err != nil {
		log.Fatalf("Could not read recording: %v", err)
	}
	log.Debugf("Read %d samples from %s", len(rec.Samples), rec.Path)

	sinks := []decode.Sink{decode.LineSink{W: os.Stdout}}

	var run *store.Run
	if conf.Output.Database != "" {
		db, err := store.Open(conf.Output.Database)
		if err != nil {
			log.Fatalf("Could not open packet database: %v", err)
		}
		defer db.Close()
		run, err = db.BeginRun(conf.Input.Path)
		if err != nil {
			log.Fatalf("Could not start run: %v", err)
		}
		log.Infof("Logging packets to %s (run %s)", conf.Output.Database, run.ID)
		sinks = append(sinks, run)
	}

	collected := &decode.CollectSink{}
	if cli.Decode.TUI {
		sinks = append(sinks, collected)
	}

	pipeline := decode.New(conf)
	stats, err := pipeline.Run(rec.Samples, sinks...)
	if err != nil {
		log.Fatalf("Decode failed: %v", err)
	}

	if run != nil {
		if err := run.Finish(stats); err != nil {
			log.Fatalf("Could not finish run: %v", err)
		}
	}
	if conf.Output.Report != "" {
		if err := decode.WriteReport(conf.Output.Report, stats); err != nil {
			log.Fatalf("Could not write report: %v", err)
		}
	}
	log.Debugf("Candidates: %d, length rejects: %d, crc rejects: %d, accepted: %d",
		stats.Datalink.Candidates, stats.Datalink.LengthRejects, stats.Datalink.CRCRejects, stats.Datalink.Accepted)

	if cli.Decode.TUI {
		view := tui.View{
			Stats:   stats,
			Packets: collected.Packets,
			Trace:   pipeline.Demodulator.Trace,
			Demod:   conf.Demod,
		}
		if err := tui.Show(view, conf.Tui); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
	}
}

func runProbe(conf config.Config) {
	path := cli.Probe.File
	if path == "" {
		path = conf.Input.Path
	}
	if path == "" {
		log.Fatal("No input recording given (use --file or input.path)")
	}
	rec, err := radio.Open(path)
	if err != nil {
		log.Fatalf("Could not read recording: %v", err)
	}
	radio.LogInfo(rec, conf.Input.SampleRate)
}

func runSynth() {
	addr, err := hex.DecodeString(cli.Synth.Address)
	if err != nil || len(addr) != datalink.AddressBits/8 {
		log.Fatalf("Address must be %d hex bytes, got %q", datalink.AddressBits/8, cli.Synth.Address)
	}
	payload, err := hex.DecodeString(cli.Synth.Payload)
	if err != nil {
		log.Fatalf("Bad payload hex: %v", err)
	}
	if cli.Synth.SPS < 1 {
		log.Fatalf("sps must be at least 1, got %d", cli.Synth.SPS)
	}

	p := datalink.Packet{PID: cli.Synth.PID, NoAck: cli.Synth.NoAck, Payload: payload}
	copy(p.Address[:], addr)

	var bits datalink.Bits
	for i := range cli.Synth.Repeat {
		tail := cli.Synth.Gap
		if i == cli.Synth.Repeat-1 {
			tail = max(tail, datalink.MaxFrameBits)
		}
		burst, err := datalink.Burst(p, cli.Synth.Gap, tail)
		if err != nil {
			log.Fatalf("Could not encode packet: %v", err)
		}
		bits = append(bits, burst...)
	}

	samples := radio.Modulate(bits, cli.Synth.SPS)
	if cli.Synth.Noise > 0 {
		radio.AddNoise(samples, cli.Synth.Noise, rand.New(rand.NewSource(cli.Synth.Seed)).NormFloat64)
	}
	if err := radio.Create(cli.Synth.Out, samples); err != nil {
		log.Fatalf("Could not write recording: %v", err)
	}
	log.Infof("Wrote %d bursts (%d bits, %d samples) to %s", cli.Synth.Repeat, len(bits), len(samples), cli.Synth.Out)
}

func runHistory() {
	db, err := store.Open(cli.History.DB)
	if err != nil {
		log.Fatalf("Could not open packet database: %v", err)
	}
	defer db.Close()

	if cli.History.Run != "" {
		packets, err := db.Packets(cli.History.Run)
		if err != nil {
			log.Fatalf("Could not read packets: %v", err)
		}
		sink := decode.LineSink{W: os.Stdout}
		for _, p := range packets {
			if err := sink.WritePacket(p); err != nil {
				log.Fatalf("Could not write packet: %v", err)
			}
		}
		return
	}

	runs, err := db.Runs()
	if err != nil {
		log.Fatalf("Could not list runs: %v", err)
	}
	for _, r := range runs {
		fmt.Printf("%s\t%s\tcandidates=%d\taccepted=%d\n", r.ID, r.Input, r.Candidates, r.Accepted)
	}
}
