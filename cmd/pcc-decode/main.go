// Command pcc-decode decodes a geometry point cloud bitstream into frames.
//
// The input is either a file of TLV framed payloads (-in) or a pcap capture
// of those payloads sent over UDP (-pcap). Every output frame is summarised
// in the log and, when requested, recorded in a SQLite catalogue (-db),
// plotted top-down (-plot-dir) and charted in an HTML session report
// (-report).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/gpcc-decoder/internal/monitoring"
	"github.com/banshee-data/gpcc-decoder/internal/pcc"
	"github.com/banshee-data/gpcc-decoder/internal/version"
)

var (
	inFile      = flag.String("in", "", "TLV bitstream file to decode")
	pcapFile    = flag.String("pcap", "", "pcap capture of TLV payloads over UDP")
	configFile  = flag.String("config", "", "Path to decoder configuration JSON (default: built-in defaults)")
	dbFile      = flag.String("db", "", "SQLite frame catalogue (empty: do not record)")
	plotDir     = flag.String("plot-dir", "", "Write a PNG per frame to this directory (overrides plot_dir)")
	reportFile  = flag.String("report", "", "Write an HTML chart of per-frame statistics to this file")
	verbose     = flag.Bool("v", false, "Enable per-brick diagnostic logging")
	trace       = flag.Bool("trace", false, "Enable per-payload trace logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("pcc-decode", version.String())
		return
	}

	monitoring.SetOutput(os.Stderr, "[pcc-decode] ")
	writers := pcc.LogWriters{Ops: os.Stderr}
	if *verbose {
		writers.Diag = os.Stderr
	}
	if *trace {
		writers.Trace = os.Stderr
	}
	pcc.SetLogWriters(writers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := run(ctx, options{
		inPath:     *inFile,
		pcapPath:   *pcapFile,
		configPath: *configFile,
		dbPath:     *dbFile,
		plotDir:    *plotDir,
		reportPath: *reportFile,
	})
	if err != nil {
		log.Fatalf("pcc-decode: %v", err)
	}
	monitoring.Logf("%s", sum)
}
