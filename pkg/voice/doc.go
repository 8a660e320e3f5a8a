// Package voice turns short spoken phrases into pointer actions.
//
// A Channel loops forever: it records one bounded phrase from an audio
// source, sends it to a speech recognizer, lower-cases the transcript and
// matches it against a small fixed vocabulary. Matched actions are pushed
// to a Sink, normally the dispatcher's voice queue.
//
// # Vocabulary
//
// Checked in order, first match wins:
//
//	"left", "select"       primary click
//	"right"                secondary click
//	"scroll up", "up"      scroll up by ScrollSpeed
//	"scroll down", "down"  scroll down by ScrollSpeed
//	"double"               double click
//
// "up" and "down" only match as whole words, so "update" or "download" do
// nothing. The other keywords match anywhere in the transcript.
//
// # Failures
//
// Capture errors, silence and recognizer failures never stop the loop.
// Each iteration yields a Result that records what happened; Run logs it
// and moves on.
//
//	ch, err := voice.New(voice.DefaultConfig(), mic, recognizer, queue, logger)
//	if err != nil {
//	    return err
//	}
//	go ch.Run(ctx)
package voice
