package main

var cli struct {
	Verbose bool   `help:"Prints debug output by default"`
	Profile bool   `help:"Output a pprof profile"`
	Config  string `help:"Path to an HCL config file" type:"path"`

	Decode struct {
		File        string  `help:"IQ recording to decode (little endian complex64)" short:"f" type:"path"`
		SPS         float64 `name:"sps" help:"Nominal samples per symbol"`
		Interpolate string  `help:"Interpolation source for the timing loop (output or input)"`
		DB          string  `name:"db" help:"SQLite database to log packets to" type:"path"`
		Report      string  `help:"Write a YAML run report to this path" type:"path"`
		TUI         bool    `name:"tui" help:"Show the packet viewer once decoding is done"`
	} `cmd:"" help:"Decode packets from an IQ recording"`

	Probe struct {
		File string `help:"IQ recording to inspect" short:"f" type:"path"`
	} `cmd:"" help:"Print sample count, power and spectral peak of an IQ recording"`

	Synth struct {
		Out     string  `help:"Where to write the IQ recording" required:"" type:"path"`
		Address string  `help:"Four byte address as hex" default:"e7e7e7e7"`
		PID     uint8   `name:"pid" help:"Packet ID (0-3)"`
		NoAck   bool    `help:"Set the no-ack bit"`
		Payload string  `help:"Payload as hex (up to 32 bytes)"`
		Repeat  int     `help:"Number of bursts to write" default:"1"`
		Gap     int     `help:"Idle bits between bursts" default:"64"`
		SPS     int     `name:"sps" help:"Samples per symbol" default:"2"`
		Noise   float64 `help:"Standard deviation of added complex noise"`
		Seed    int64   `help:"Noise seed" default:"1"`
	} `cmd:"" help:"Write a synthetic IQ recording containing packets"`

	History struct {
		DB  string `name:"db" help:"SQLite database written by decode --db" required:"" type:"path"`
		Run string `help:"Print the packets of this run instead of the run list"`
	} `cmd:"" help:"List decode runs or the packets of one run from a packet database"`
}
