package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/camelcase"
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/go-arrower/entitystore/entity"
)

var errUnsupportedType = errors.New("unsupported type")

// printTable writes one row per entity and one column per exported field of E.
func printTable[E any](w io.Writer, entities []E) error {
	return writeTable(w, entities, color.New(color.Bold))
}

// writeTable aligns the table first and colours the header afterwards,
// so escape sequences do not count towards the column widths.
func writeTable[E any](w io.Writer, entities []E, header *color.Color) error {
	typ := reflect.TypeFor[E]()
	if typ.Kind() != reflect.Struct {
		return fmt.Errorf("%w: can not print %s as table", errUnsupportedType, typ)
	}

	buf := &bytes.Buffer{}
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0) //nolint:mnd // padding

	headers := make([]string, 0, typ.NumField())
	for i := range typ.NumField() {
		if typ.Field(i).IsExported() {
			headers = append(headers, columnName(typ.Field(i).Name))
		}
	}

	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, e := range entities {
		val := reflect.ValueOf(e)
		cells := make([]string, 0, len(headers))

		for i := range typ.NumField() {
			if typ.Field(i).IsExported() {
				cells = append(cells, cell(val.Field(i).Interface()))
			}
		}

		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("could not write table: %w", err)
	}

	first, rows, _ := strings.Cut(buf.String(), "\n")
	header.Fprintln(w, first) //nolint:errcheck // same as fmt.Fprint
	fmt.Fprint(w, rows)
	fmt.Fprintf(w, "(%s)\n", plural(len(entities), "row"))

	return nil
}

// columnName turns a field name like CreatedByID into CREATED BY ID.
func columnName(field string) string {
	if field == "PostIDs" {
		return "POSTS"
	}

	return strings.ToUpper(strings.Join(camelcase.Split(field), " "))
}

func cell(v any) string {
	switch v := v.(type) {
	case time.Time:
		return v.Format(time.RFC3339)
	case []entity.ID:
		return plural(len(v), "post")
	case string:
		const maxLen = 40
		if r := []rune(v); len(r) > maxLen {
			return string(r[:maxLen-3]) + "..."
		}

		return v
	default:
		return fmt.Sprint(v)
	}
}

// kindLabel returns a human-readable plural for kind, e.g. Forum Threads.
func kindLabel(kind entity.Kind) string {
	words := strings.ToLower(strings.Join(camelcase.Split(kind.String()), " "))
	if !strings.HasSuffix(words, "s") {
		words += "s"
	}

	return cases.Title(language.Und).String(words)
}
