package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// workbookBuilder wraps excelize with sheet-at-a-time helpers.
type workbookBuilder struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

func newWorkbookBuilder() *workbookBuilder {
	return &workbookBuilder{file: excelize.NewFile()}
}

func (w *workbookBuilder) addSheet(name string) error {
	// Excel caps sheet names at 31 chars.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *workbookBuilder) writeHeader(columns []string) error {
	if err := w.writeRow(toAny(columns)); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.currentRow-1)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow-1)
		_ = w.file.SetCellStyle(w.currentSheet, startCell, endCell, style)
	}
	return nil
}

func (w *workbookBuilder) writeRow(row []any) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// WriteWorkbook renders the health report as an xlsx workbook with one
// sheet per section.
func WriteWorkbook(d *Data, out io.Writer) error {
	w := newWorkbookBuilder()
	defer w.file.Close()

	u := d.User

	if err := w.addSheet("Profile"); err != nil {
		return err
	}
	if err := w.writeHeader([]string{"Field", "Value"}); err != nil {
		return err
	}
	profile := [][]any{
		{"Name", u.Name},
		{"Email", u.Email},
		{"Age", intField(u.Age)},
		{"Gender", capitalize(u.Gender)},
		{"Weight (kg)", floatField(u.WeightKg)},
		{"Height (cm)", floatField(u.HeightCm)},
		{"Blood Group", textField(u.BloodGroup, "N/A")},
		{"Blood Sugar (mg/dL)", intField(u.BloodSugar)},
		{"Blood Pressure (mmHg)", fmt.Sprintf("%s/%s", intField(u.SystolicBP), intField(u.DiastolicBP))},
		{"Cholesterol (mg/dL)", intField(u.Cholesterol)},
		{"Chronic Illnesses", textField(u.ChronicIllnesses, "None listed")},
		{"Past Surgeries", textField(u.PastSurgeries, "None listed")},
		{"Family Genetic Diseases", textField(u.GeneticDiseases, "None listed")},
	}
	for _, row := range profile {
		if err := w.writeRow(row); err != nil {
			return err
		}
	}

	if err := w.addSheet("Medications"); err != nil {
		return err
	}
	if err := w.writeHeader([]string{"Name", "Dosage", "Frequency", "Start Date", "End Date"}); err != nil {
		return err
	}
	for _, m := range d.Medications {
		if err := w.writeRow([]any{m.Name, m.Dosage, m.Frequency, m.StartDate, m.EndDate}); err != nil {
			return err
		}
	}

	if err := w.addSheet("Appointments"); err != nil {
		return err
	}
	if err := w.writeHeader([]string{"Doctor", "Specialty", "Date", "Time", "Reason"}); err != nil {
		return err
	}
	for _, a := range d.Appointments {
		if err := w.writeRow([]any{a.DoctorName, a.Specialty, a.Date, a.Time, a.Reason}); err != nil {
			return err
		}
	}

	if err := w.addSheet("Exercise Log"); err != nil {
		return err
	}
	if err := w.writeHeader([]string{"Completed At", "Exercise", "Duration (s)", "Calories"}); err != nil {
		return err
	}
	for _, e := range d.Exercise {
		if err := w.writeRow([]any{
			e.CompletedAt.Format("2006-01-02 15:04"), e.ExerciseName, e.DurationSeconds, e.CaloriesBurned,
		}); err != nil {
			return err
		}
	}

	if err := w.addSheet("Journal"); err != nil {
		return err
	}
	if err := w.writeHeader([]string{"Date", "Mood", "Thoughts", "Gratitude", "Sentiment"}); err != nil {
		return err
	}
	for _, j := range d.Journal {
		if err := w.writeRow([]any{
			j.LoggedAt, MoodLabel(j.Mood), j.EntryText, j.GratitudeText, j.Sentiment,
		}); err != nil {
			return err
		}
	}

	_, err := w.file.WriteTo(out)
	return err
}
