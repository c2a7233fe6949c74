// Command drawimport loads historical winning numbers into the draw store.
// Input is CSV with one drawing per line: date,w1,w2,w3,w4,w5,powerball.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"ticket-scanner/internal/draws"
)

func main() {
	csvPath := flag.String("csv", "", "CSV file of drawings (date,w1..w5,powerball)")
	dbPath := flag.String("db", "draws.db", "Draw database path")
	flag.Parse()

	if *csvPath == "" {
		fmt.Println("Usage: drawimport -csv <path> [-db draws.db]")
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	store, err := draws.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 7

	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read CSV: %v\n", err)
		os.Exit(1)
	}

	imported := 0
	for i, rec := range records {
		draw, err := parseRecord(rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Line %d skipped: %v\n", i+1, err)
			continue
		}
		if err := store.Put(rec[0], draw); err != nil {
			fmt.Fprintf(os.Stderr, "Line %d skipped: %v\n", i+1, err)
			continue
		}
		imported++
	}

	total, _ := store.Count()
	fmt.Printf("Imported %d drawings (%d total in store)\n", imported, total)
}

func parseRecord(rec []string) (draws.Draw, error) {
	var d draws.Draw
	for i := 0; i < 5; i++ {
		n, err := strconv.Atoi(rec[i+1])
		if err != nil {
			return d, fmt.Errorf("white ball %q: %w", rec[i+1], err)
		}
		if n < 1 || n > 69 {
			return d, fmt.Errorf("white ball %d out of range", n)
		}
		d.White[i] = n
	}

	pb, err := strconv.Atoi(rec[6])
	if err != nil {
		return d, fmt.Errorf("powerball %q: %w", rec[6], err)
	}
	if pb < 1 || pb > 26 {
		return d, fmt.Errorf("powerball %d out of range", pb)
	}
	d.Powerball = pb
	return d, nil
}
