// SPDX-License-Identifier: Apache-2.0

// Command posw is a thin CLI over the posw library: generate a proof,
// verify one, or inspect its contents. It is not part of the PoSW core and
// exists only as a manual-testing convenience, the way a library ships a
// codegen or inspection tool as a separate cmd alongside the core package
// rather than folding it into the library itself.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sequentialproof/posw"
	"github.com/sequentialproof/posw/internal/obslog"
	"github.com/sequentialproof/posw/params"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "verify":
		err = runVerify(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "posw:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: posw <generate|verify|inspect> [flags]")
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	puzzle := fs.String("puzzle", "", "puzzle bytes, UTF-8 (default: empty)")
	difficulty := fs.Uint("difficulty", 8, "difficulty N; proof certifies ~2^N sequential hashes")
	preset := fs.String("preset", "mainnet", "protocol parameter preset: mainnet or testnet")
	out := fs.String("out", "", "output file for the proof (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := params.Load(*preset)
	if err != nil {
		return err
	}

	logger := obslog.Default()
	start := time.Now()
	proof, err := posw.GenerateWithParams([]byte(*puzzle), uint8(*difficulty), p)
	obslog.GenerateEvent(logger, uint8(*difficulty), p.ProofCertainty(), len(proof.ToBytes()), time.Since(start), err)
	if err != nil {
		return err
	}

	return writeOutput(*out, proof.ToBytes())
}

func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	puzzle := fs.String("puzzle", "", "puzzle bytes, UTF-8 (default: empty)")
	difficulty := fs.Uint("difficulty", 8, "difficulty the proof claims")
	preset := fs.String("preset", "mainnet", "protocol parameter preset: mainnet or testnet")
	in := fs.String("in", "", "input file holding the proof (default: stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := params.Load(*preset)
	if err != nil {
		return err
	}

	data, err := readInput(*in)
	if err != nil {
		return err
	}
	proof, err := posw.FromBytes(data)
	if err != nil {
		return fmt.Errorf("decoding proof: %w", err)
	}

	logger := obslog.Default()
	start := time.Now()
	reason := posw.VerifyDetailed(proof, []byte(*puzzle), uint8(*difficulty), p)
	obslog.VerifyEvent(logger, uint8(*difficulty), reason == nil, time.Since(start), reason)

	if reason != nil {
		fmt.Fprintln(os.Stderr, "rejected:", reason)
		os.Exit(1)
	}
	fmt.Println("accepted")
	return nil
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	in := fs.String("in", "", "input file holding the proof (default: stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInput(*in)
	if err != nil {
		return err
	}
	proof, err := posw.FromBytes(data)
	if err != nil {
		return fmt.Errorf("decoding proof: %w", err)
	}

	fmt.Printf("nodes: %d\n", proof.Len())
	if root, ok := proof.RootLabel(); ok {
		fmt.Printf("root:  %x\n", root)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
