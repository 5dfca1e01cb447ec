package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/holdsplit/internal/catalog"
	"github.com/verte-zerg/holdsplit/internal/codetable"
	"github.com/verte-zerg/holdsplit/internal/model"
	"github.com/verte-zerg/holdsplit/internal/sheet"
)

// ItemClient fetches and writes catalog items.
type ItemClient interface {
	FetchItem(ctx context.Context, barcode string) (*catalog.Item, error)
	UpdateItem(ctx context.Context, item *catalog.Item) error
}

// Notes written by the update step.
const (
	noteFetchFailed  = "Err: Problem fetching item information. Code %d"
	noteUpdateFailed = "Err: Problem with Networking request. Code %d"
	noteUnknownCode  = "Err: Unknown %s '%s'"
	noteNotProcessed = "Err: Update interrupted"
)

// UpdateResult describes a finished update step.
type UpdateResult struct {
	SuccessOut string
	ErrorOut   string
	Updated    int
	Failed     int
}

type codedColumn struct {
	column string
	field  string
	table  codetable.Table
}

var codedColumns = []codedColumn{
	{column: sheet.ColMaterialType, field: catalog.FieldMaterialType, table: codetable.MaterialType},
	{column: sheet.ColItemPolicy, field: catalog.FieldPolicy, table: codetable.ItemPolicy},
}

var textColumns = []struct {
	column string
	field  string
}{
	{sheet.ColEnumA, catalog.FieldEnumA},
	{sheet.ColEnumB, catalog.FieldEnumB},
	{sheet.ColChronI, catalog.FieldChronI},
	{sheet.ColChronJ, catalog.FieldChronJ},
}

// Update pushes every clean row to the catalog, one item at a time. Rows
// flagged by an earlier step are not sent. Rows are split between a success
// file and an error file.
func Update(ctx context.Context, in string, client ItemClient, opts Options) (UpdateResult, error) {
	started := opts.now()
	log := opts.logger()
	log.Info("updating", zap.String("input", in))

	t, err := sheet.ReadFile(in)
	if err != nil {
		return UpdateResult{}, err
	}
	ix, err := sheet.Resolve(t, opts.schema())
	if err != nil {
		return UpdateResult{}, err
	}
	sheet.EnsureColumn(t, ix, sheet.ColNotes)
	if _, ok := t.Column(sheet.ColPattern); ok {
		sheet.EnsureColumn(t, ix, sheet.ColPattern)
	}

	var succeeded, failed []int
	total := len(t.Rows)
	var interrupted error
	for i, row := range t.Rows {
		if interrupted == nil {
			interrupted = ctx.Err()
		}
		if interrupted != nil {
			ix.Set(row, sheet.ColNotes, model.AppendNote(ix.Get(row, sheet.ColNotes), noteNotProcessed))
			failed = append(failed, i)
			continue
		}

		rowLog := log.With(zap.Int("item", i+1), zap.Int("of", total))
		notes := ix.Get(row, sheet.ColNotes)
		switch {
		case strings.Contains(notes, model.ErrPrefix):
			rowLog.Info("skipped, item has error")
			failed = append(failed, i)
			continue
		case ix.Get(row, sheet.ColPattern) == model.Unmatched:
			rowLog.Info("skipped, item's description could not be matched")
			failed = append(failed, i)
			continue
		}

		if note := updateRow(ctx, client, ix, row); note != "" {
			rowLog.Warn("item not updated", zap.String("barcode", ix.Get(row, sheet.ColBarcode)), zap.String("reason", note))
			ix.Set(row, sheet.ColNotes, model.AppendNote(notes, note))
			failed = append(failed, i)
			continue
		}
		rowLog.Info("item updated")
		succeeded = append(succeeded, i)
	}

	res := UpdateResult{
		SuccessOut: sheet.OutputPath(in, sheet.PrefixSuccess),
		ErrorOut:   sheet.OutputPath(in, sheet.PrefixError),
		Updated:    len(succeeded),
		Failed:     len(failed),
	}
	if err := t.Subset(succeeded).WriteFile(res.SuccessOut); err != nil {
		return res, err
	}
	if err := t.Subset(failed).WriteFile(res.ErrorOut); err != nil {
		return res, err
	}
	log.Info("update finished",
		zap.Int("updated", res.Updated),
		zap.Int("failed", res.Failed),
		zap.Duration("took", opts.now().Sub(started)))

	opts.record(ctx, model.Run{
		Kind:       model.RunUpdate,
		InputPath:  in,
		OutputPath: res.SuccessOut,
		StartedAt:  started,
		Total:      total,
		Failed:     res.Failed,
	}, nil)
	if interrupted != nil {
		return res, fmt.Errorf("update interrupted: %w", interrupted)
	}
	return res, nil
}

// updateRow fetches, edits and writes back one item. It returns the note to
// attach to the row when the item could not be updated.
func updateRow(ctx context.Context, client ItemClient, ix *sheet.Index, row []string) string {
	barcode := strings.TrimPrefix(ix.Get(row, sheet.ColBarcode), "'")
	item, err := client.FetchItem(ctx, barcode)
	if err != nil {
		return fmt.Sprintf(noteFetchFailed, catalog.StatusCode(err))
	}

	for _, c := range codedColumns {
		if !ix.Has(c.column) {
			continue
		}
		label := ix.Get(row, c.column)
		if label == "" {
			continue
		}
		entry, err := c.table.Lookup(label)
		if err != nil {
			return fmt.Sprintf(noteUnknownCode, c.column, label)
		}
		item.SetCodedField(c.field, entry.Code, entry.Label)
	}
	for _, c := range textColumns {
		if v := ix.Get(row, c.column); v != "" {
			item.SetField(c.field, v)
		}
	}

	if err := client.UpdateItem(ctx, item); err != nil {
		return fmt.Sprintf(noteUpdateFailed, catalog.StatusCode(err))
	}
	return ""
}
