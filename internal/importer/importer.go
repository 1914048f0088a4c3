package importer

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"freshprep/internal/domain"
)

type MealWriter interface {
	Upsert(ctx context.Context, meal domain.Meal) (*domain.Meal, error)
}

type ZoneWriter interface {
	Upsert(ctx context.Context, zone domain.DeliveryZone) (*domain.DeliveryZone, error)
}

// Kind identifies which CSV layout a file carries.
type Kind string

const (
	KindMeals Kind = "meals"
	KindZones Kind = "zones"
)

// DetectKind sniffs the header row to decide which importer to run.
func DetectKind(r io.Reader) (Kind, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read headers: %w", err)
	}
	headers := strings.Split(strings.TrimSpace(line), ",")
	for _, h := range headers {
		switch strings.TrimSpace(h) {
		case "postcode":
			return KindZones, nil
		case "slug":
			return KindMeals, nil
		}
	}
	return "", fmt.Errorf("unrecognized csv headers: %s", strings.TrimSpace(line))
}

// CSVImporter reads menu exports and upserts meals or delivery zones.
type CSVImporter struct {
	reader *csv.Reader
	meals  MealWriter
	zones  ZoneWriter
}

func NewCSVImporter(r io.Reader, meals MealWriter, zones ZoneWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader: csvr,
		meals:  meals,
		zones:  zones,
	}
}

// Run parses the CSV and upserts every row, returning the imported count.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	if _, ok := index["postcode"]; ok {
		return i.runZones(ctx, index)
	}
	return i.runMeals(ctx, index)
}

func (i *CSVImporter) runMeals(ctx context.Context, index map[string]int) (int, error) {
	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		meal, err := parseMealRow(record, index)
		if err != nil {
			return imported, err
		}
		if meal == nil {
			continue
		}
		if _, err := i.meals.Upsert(ctx, *meal); err != nil {
			return imported, fmt.Errorf("upsert meal %q: %w", meal.Slug, err)
		}
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) runZones(ctx context.Context, index map[string]int) (int, error) {
	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		zone, err := parseZoneRow(record, index)
		if err != nil {
			return imported, err
		}
		if zone == nil {
			continue
		}
		if _, err := i.zones.Upsert(ctx, *zone); err != nil {
			return imported, fmt.Errorf("upsert zone %q: %w", zone.Postcode, err)
		}
		imported++
	}
	return imported, nil
}

func parseMealRow(record []string, index map[string]int) (*domain.Meal, error) {
	slug := pick(record, index, "slug")
	if slug == "" {
		return nil, nil
	}
	name := pick(record, index, "name")
	category := pick(record, index, "category")
	centStr := pick(record, index, "priceCents")
	if name == "" || category == "" || centStr == "" {
		return nil, fmt.Errorf("invalid meal row (missing required fields) for slug %q", slug)
	}
	cents, err := strconv.ParseInt(centStr, 10, 64)
	if err != nil || cents <= 0 {
		return nil, fmt.Errorf("invalid price for slug %q: %s", slug, centStr)
	}

	meal := &domain.Meal{
		Slug:             slug,
		Name:             name,
		ShortDescription: pick(record, index, "shortDescription"),
		Description:      pick(record, index, "description"),
		PriceCents:       cents,
		Image:            pick(record, index, "image"),
		Category:         domain.MealCategory(category),
		Tags:             splitList(pick(record, index, "tags")),
		Allergens:        splitList(pick(record, index, "allergens")),
		IsActive:         pick(record, index, "isActive") != "false",
	}

	if calStr := pick(record, index, "calories"); calStr != "" {
		calories, err := strconv.Atoi(calStr)
		if err != nil {
			return nil, fmt.Errorf("invalid calories for slug %q: %s", slug, calStr)
		}
		meal.Nutrition = &domain.Nutrition{
			Calories: calories,
			Protein:  pickFloat(record, index, "protein"),
			Carbs:    pickFloat(record, index, "carbs"),
			Fat:      pickFloat(record, index, "fat"),
		}
	}
	return meal, nil
}

func parseZoneRow(record []string, index map[string]int) (*domain.DeliveryZone, error) {
	postcode := pick(record, index, "postcode")
	if postcode == "" {
		return nil, nil
	}
	suburb := pick(record, index, "suburb")
	if suburb == "" {
		return nil, fmt.Errorf("invalid zone row (missing suburb) for postcode %q", postcode)
	}

	cents, _ := strconv.ParseInt(pick(record, index, "deliveryCents"), 10, 64)
	cutoff, _ := strconv.Atoi(pick(record, index, "cutoffHour"))

	name := pick(record, index, "name")
	if name == "" {
		name = suburb
	}

	return &domain.DeliveryZone{
		Name:          name,
		Postcode:      postcode,
		Suburb:        suburb,
		DeliveryDays:  splitList(pick(record, index, "deliveryDays")),
		DeliveryCents: cents,
		CutoffHour:    cutoff,
		IsActive:      pick(record, index, "isActive") != "false",
	}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func pickFloat(record []string, index map[string]int, key string) float64 {
	v, _ := strconv.ParseFloat(pick(record, index, key), 64)
	return v
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ";") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
