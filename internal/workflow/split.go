package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/verte-zerg/holdsplit/internal/batch"
	"github.com/verte-zerg/holdsplit/internal/model"
	"github.com/verte-zerg/holdsplit/internal/sheet"
)

// SplitResult describes a finished split step.
type SplitResult struct {
	Out    string
	Result batch.Result
}

// Split fills defaults, checks barcodes, parses descriptions and writes the
// rows in title and volume order.
func Split(ctx context.Context, in string, opts Options) (SplitResult, error) {
	started := opts.now()
	log := opts.logger()
	log.Info("splitting", zap.String("input", in))

	t, err := sheet.ReadFile(in)
	if err != nil {
		return SplitResult{}, err
	}
	schema := opts.schema()
	ix, err := sheet.Resolve(t, schema)
	if err != nil {
		return SplitResult{}, err
	}
	sheet.EnsureColumn(t, ix, sheet.ColPattern)
	sheet.EnsureColumn(t, ix, sheet.ColNotes)
	if err := sheet.FillDefaults(t, ix, schema, opts.Prompter); err != nil {
		return SplitResult{}, err
	}

	records := make([]*model.Record, len(t.Rows))
	for i, row := range t.Rows {
		rec := &model.Record{
			Row:         i,
			TitleID:     ix.Get(row, sheet.ColMMSID),
			Description: ix.Get(row, sheet.ColDescription),
			EnumA:       ix.Get(row, sheet.ColEnumA),
			EnumB:       ix.Get(row, sheet.ColEnumB),
			ChronI:      ix.Get(row, sheet.ColChronI),
			ChronJ:      ix.Get(row, sheet.ColChronJ),
			MatchLabel:  ix.Get(row, sheet.ColPattern),
			Notes:       ix.Get(row, sheet.ColNotes),
		}
		for _, note := range sheet.BarcodeNotes(ix.Get(row, sheet.ColBarcode)) {
			rec.AppendNote(note)
		}
		records[i] = rec
	}

	var res batch.Result
	if ix.Has(sheet.ColDescription) {
		res = batch.Run(records, opts.library())
	} else {
		batch.Order(records)
		res = batch.Result{Total: len(records)}
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := t.Rows[rec.Row]
		ix.Set(row, sheet.ColEnumA, rec.EnumA)
		ix.Set(row, sheet.ColEnumB, rec.EnumB)
		ix.Set(row, sheet.ColChronI, rec.ChronI)
		ix.Set(row, sheet.ColChronJ, rec.ChronJ)
		ix.Set(row, sheet.ColPattern, rec.MatchLabel)
		ix.Set(row, sheet.ColNotes, rec.Notes)
		rows[i] = row
	}
	t.Rows = rows

	out := sheet.OutputPath(in, sheet.PrefixSplit)
	if err := t.WriteFile(out); err != nil {
		return SplitResult{}, err
	}
	log.Info("pattern-matched data written",
		zap.String("output", out),
		zap.Int("rows", res.Total),
		zap.Int("unmatched", res.Unmatched),
		zap.Int("unresolved", res.Unresolved))

	opts.record(ctx, model.Run{
		Kind:       model.RunSplit,
		InputPath:  in,
		OutputPath: out,
		StartedAt:  started,
		Total:      res.Total,
		Unmatched:  res.Unmatched,
		Unresolved: res.Unresolved,
	}, res.PatternCounts)
	return SplitResult{Out: out, Result: res}, nil
}
