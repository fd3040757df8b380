// Command snapshot inspects garden snapshot files and exports gardens from the
// configured store into them.
//
//	snapshot inspect <file>
//	snapshot export -user <id> -out <file>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/bootstrap"
	"github.com/osse101/IdleGarden_Go/internal/config"
	"github.com/osse101/IdleGarden_Go/internal/database/snapshot"
)

const usage = "usage: snapshot inspect <file> | snapshot export -user <id> -out <file>"

var errUsage = errors.New(usage)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "inspect":
		if len(args) != 2 {
			return errUsage
		}
		return inspect(args[1], out)
	case "export":
		return export(ctx, args[1:], out)
	default:
		return errUsage
	}
}

func inspect(path string, out io.Writer) error {
	doc, err := snapshot.ReadSnapshot(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	// The body must still convert to a valid state.
	if _, err := doc.ToState(); err != nil {
		return fmt.Errorf("invalid garden in %s: %w", path, err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func export(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(out)
	userID := fs.String("user", "", "user whose garden is exported")
	path := fs.String("out", "", "snapshot file to write")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == "" || *path == "" {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	stores, err := bootstrap.InitializeStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	state, err := stores.Gardens.LoadGarden(ctx, *userID)
	if err != nil {
		return err
	}
	doc := snapshot.FromState(state, time.Now())
	doc.Header.UserID = *userID
	if err := snapshot.WriteSnapshot(*path, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "exported %s (state version %d, %d plants) to %s\n",
		*userID, doc.Header.StateVersion, len(doc.Plants), *path)
	return nil
}
