package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/banshee-data/gpcc-decoder/internal/config"
	"github.com/banshee-data/gpcc-decoder/internal/monitoring"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/hls"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/l1payloads"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/l2frames"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/monitor"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/pointset"
	"github.com/banshee-data/gpcc-decoder/internal/pcc/storage/sqlite"
)

type options struct {
	inPath     string
	pcapPath   string
	configPath string
	dbPath     string
	plotDir    string
	reportPath string
}

type summary struct {
	SessionID string
	Payloads  int
	Frames    int
	Points    int
	Errors    int
	Elapsed   time.Duration
}

func (s summary) String() string {
	msg := fmt.Sprintf("decoded %d payloads into %d frames (%d points), %d payload errors in %v",
		s.Payloads, s.Frames, s.Points, s.Errors, s.Elapsed.Round(time.Millisecond))
	if s.SessionID != "" {
		msg += ", session " + s.SessionID
	}
	return msg
}

// frameSink is the decoder's output callback. It logs each frame and
// optionally records and plots it.
type frameSink struct {
	store       *sqlite.FrameStore
	sessionID   string
	storePoints bool
	plotDir     string
	frames      int
	history     []monitor.FrameStats // kept only when a report is requested
	keepHistory bool
}

func (s *frameSink) output(sps *hls.SequenceParameterSet, cloud *pointset.PointSet) error {
	idx := s.frames
	s.frames++

	stats := monitor.ComputeFrameStats(cloud)
	monitoring.Logf("frame %d (sps %d): %v", idx, sps.ID, stats)
	if s.keepHistory {
		s.history = append(s.history, stats)
	}

	if s.store != nil {
		rec := sqlite.FrameRecord{
			FrameIndex: idx,
			SPSID:      sps.ID,
			PointCount: stats.Count,
			Bounds:     stats.Bounds,
		}
		if s.storePoints {
			rec.Points = cloud.Positions()
		}
		if err := s.store.RecordFrame(s.sessionID, rec); err != nil {
			return err
		}
	}

	if s.plotDir != "" {
		title := fmt.Sprintf("frame %d (%d points)", idx, stats.Count)
		if err := monitor.PlotFrame(cloud, title, monitor.FramePlotPath(s.plotDir, idx)); err != nil {
			return err
		}
	}
	return nil
}

func loadConfig(path string) (*config.DecoderConfig, error) {
	if path == "" {
		return config.EmptyDecoderConfig(), nil
	}
	return config.LoadDecoderConfig(path)
}

func openSource(opts options, cfg *config.DecoderConfig) (l1payloads.Source, *os.File, string, error) {
	switch {
	case opts.inPath != "" && opts.pcapPath != "":
		return nil, nil, "", fmt.Errorf("-in and -pcap are mutually exclusive")
	case opts.inPath != "":
		f, err := os.Open(opts.inPath)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to open bitstream: %w", err)
		}
		return l1payloads.NewReader(f, cfg.GetMaxPayloadSize()), f, opts.inPath, nil
	case opts.pcapPath != "":
		f, err := os.Open(opts.pcapPath)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to open capture: %w", err)
		}
		src, err := l1payloads.NewPCAPSource(f, cfg.GetUDPPort(), cfg.GetMaxPayloadSize())
		if err != nil {
			f.Close()
			return nil, nil, "", err
		}
		return src, f, opts.pcapPath, nil
	}
	return nil, nil, "", fmt.Errorf("one of -in or -pcap is required")
}

func run(ctx context.Context, opts options) (summary, error) {
	start := time.Now()
	var sum summary

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return sum, err
	}
	activation, err := l2frames.ParseActivation(cfg.GetActivation())
	if err != nil {
		return sum, err
	}

	src, f, name, err := openSource(opts, cfg)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	sink := &frameSink{
		storePoints: cfg.GetStorePoints(),
		plotDir:     cfg.GetPlotDir(),
		keepHistory: opts.reportPath != "",
	}
	if opts.plotDir != "" {
		sink.plotDir = opts.plotDir
	}
	if opts.dbPath != "" {
		store, err := sqlite.Open(opts.dbPath)
		if err != nil {
			return sum, err
		}
		defer store.Close()
		if sink.sessionID, err = store.BeginSession(name); err != nil {
			return sum, err
		}
		sink.store = store
		sum.SessionID = sink.sessionID
	}

	dec := l2frames.NewDecoder(l2frames.Params{
		MinGeomNodeSizeLog2: cfg.GetMinGeomNodeSizeLog2(),
		Activation:          activation,
	}, sink.output)

	decodeErr := l2frames.DecodeStream(ctx, src, dec, cfg.GetAbortOnError())

	st := dec.Stats()
	for _, n := range st.Payloads {
		sum.Payloads += n
	}
	sum.Frames = st.FramesOutput
	sum.Points = st.PointsOutput
	sum.Errors = st.Errors
	sum.Elapsed = time.Since(start)

	if sink.store != nil {
		totals := sqlite.SessionTotals{Frames: sum.Frames, Points: sum.Points, Errors: sum.Errors}
		if err := sink.store.FinishSession(sink.sessionID, totals); err != nil && decodeErr == nil {
			decodeErr = err
		}
	}
	if opts.reportPath != "" {
		title := name
		if sum.SessionID != "" {
			title += " (session " + sum.SessionID + ")"
		}
		if err := monitor.WriteSessionReport(opts.reportPath, title, sink.history); err != nil && decodeErr == nil {
			decodeErr = err
		}
	}
	return sum, decodeErr
}
