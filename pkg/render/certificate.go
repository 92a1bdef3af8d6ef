// Package render produces the printable certificate document for an
// issued compliance record. Rendering is pure: the same record always
// yields byte-identical PDF output.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/capacita-api/internal/models"
)

const (
	labelColWidth = 58.0
	valueColWidth = 122.0
	rowHeight     = 6.0
	bandHeight    = 7.0
	// Free text is wrapped on a fixed rune budget rather than measured
	// glyph width. Occasional ragged lines are accepted.
	wrapBudget = 72
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Certificate renders compliance records into the fixed single-page
// certificate layout.
type Certificate struct {
	defaultIssuePlace string
}

// NewCertificate builds a renderer. The default issue place is used when
// the record carries none.
func NewCertificate(defaultIssuePlace string) *Certificate {
	return &Certificate{defaultIssuePlace: defaultIssuePlace}
}

// Render serializes the record into PDF bytes. It either returns a
// complete document or an error, never partial output.
func (r *Certificate) Render(record *models.ComplianceRecord) ([]byte, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Both PDF metadata dates must come from the record; gofpdf would
	// otherwise stamp the modification date with the current wall clock.
	pdf.SetCreationDate(record.IssuedAt.UTC())
	pdf.SetModificationDate(record.IssuedAt.UTC())
	// Resource catalog keys are emitted in map iteration order unless
	// sorting is enabled, which would break byte determinism.
	pdf.SetCatalogSort(true)
	pdf.SetTitle(fmt.Sprintf("Constancia %s", formatFolio(record.Folio)), true)
	pdf.SetMargins(15, 14, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	drawHeader(pdf, tr, record)

	drawBand(pdf, tr, "DATOS DEL TRABAJADOR")
	drawRow(pdf, tr, "Nombre", record.Worker.FullName)
	drawRow(pdf, tr, "CURP", record.Worker.CURP)
	drawOptionalRow(pdf, tr, "RFC", record.Worker.RFC)
	drawOptionalRow(pdf, tr, "NSS", record.Worker.NSS)
	drawOptionalRow(pdf, tr, "Ocupación específica", record.Worker.Occupation)
	drawOptionalRow(pdf, tr, "Puesto", record.Worker.JobTitle)
	drawOptionalRow(pdf, tr, "Nacionalidad", record.Worker.Nationality)

	drawBand(pdf, tr, "DATOS DE LA EMPRESA")
	drawRow(pdf, tr, "Razón social", record.Employer.LegalName)
	drawOptionalRow(pdf, tr, "RFC", record.Employer.RFC)
	drawRow(pdf, tr, "Registro patronal", record.Employer.EmployerRegistryNum)
	drawOptionalRow(pdf, tr, "Actividad", record.Employer.BusinessActivity)
	drawOptionalRow(pdf, tr, "Domicilio", record.Employer.Address)

	drawBand(pdf, tr, "DATOS DEL CURSO")
	drawRow(pdf, tr, "Nombre del curso", record.Course.Name)
	drawRow(pdf, tr, "Duración", fmt.Sprintf("%d horas", record.Course.DurationHours))
	if period := formatPeriod(record.Course.StartDate, record.Course.EndDate); period != "" {
		drawRow(pdf, tr, "Periodo de ejecución", period)
	}
	drawRow(pdf, tr, "Área temática", fmt.Sprintf("%s - %s", record.Course.TopicAreaCode, record.Course.TopicAreaName))
	drawRow(pdf, tr, "Modalidad", modalityLabel(record.Course.Modality))
	drawOptionalRow(pdf, tr, "Objetivo", record.Course.Objective)

	drawBand(pdf, tr, "INSTRUCTOR")
	drawRow(pdf, tr, "Nombre", record.Instructor.Name)
	drawRow(pdf, tr, "Tipo", instructorLabel(record.Instructor.Type))
	if record.Instructor.AgentRegistryNum != nil && *record.Instructor.AgentRegistryNum != "" {
		drawRow(pdf, tr, "Registro de agente", *record.Instructor.AgentRegistryNum)
	}

	drawBand(pdf, tr, "RESULTADO DE LA EVALUACIÓN")
	drawRow(pdf, tr, "Calificación", fmt.Sprintf("%.1f / 100 (mínima aprobatoria %.1f)",
		record.Result.Score, record.Result.MinPassingScore))
	drawResultBadge(pdf, tr, record.Result.Passed)
	if record.Result.Observations != nil && *record.Result.Observations != "" {
		drawRow(pdf, tr, "Observaciones", *record.Result.Observations)
	}

	drawSignatures(pdf, tr, record)
	drawFooter(pdf, tr, record, r.defaultIssuePlace)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

func validateRecord(record *models.ComplianceRecord) error {
	if record == nil {
		return fmt.Errorf("record is nil")
	}
	switch {
	case record.Folio <= 0:
		return fmt.Errorf("record %s has no folio", record.ID)
	case record.Worker.FullName == "":
		return fmt.Errorf("record %s missing worker name", record.ID)
	case record.Worker.CURP == "":
		return fmt.Errorf("record %s missing worker CURP", record.ID)
	case record.Employer.LegalName == "":
		return fmt.Errorf("record %s missing employer legal name", record.ID)
	case record.Employer.EmployerRegistryNum == "":
		return fmt.Errorf("record %s missing employer registry number", record.ID)
	case record.Course.Name == "":
		return fmt.Errorf("record %s missing course name", record.ID)
	case record.Course.TopicAreaCode == "":
		return fmt.Errorf("record %s missing topic area", record.ID)
	case record.IssuedAt.IsZero():
		return fmt.Errorf("record %s missing issue date", record.ID)
	}
	return nil
}

func drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, record *models.ComplianceRecord) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(31, 56, 100)
	pdf.CellFormat(0, 8, tr("CONSTANCIA DE COMPETENCIAS O DE HABILIDADES LABORALES"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 5, tr("Formato DC-3 · Capacitación y adiestramiento"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Folio interno: %s", formatFolio(record.Folio))), "", 1, "R", false, 0, "")

	if record.Status == models.RecordRevoked {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(183, 28, 28)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(0, 7, tr("CONSTANCIA REVOCADA - SIN VALIDEZ"), "", 1, "C", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(2)
}

func drawBand(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(1.5)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(31, 78, 121)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(0, bandHeight, tr("  "+title), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func drawRow(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	lines := wrapText(value, wrapBudget)
	for i, line := range lines {
		pdf.SetFont("Arial", "B", 9)
		if i == 0 {
			pdf.CellFormat(labelColWidth, rowHeight, tr(label), "", 0, "L", false, 0, "")
		} else {
			pdf.CellFormat(labelColWidth, rowHeight, "", "", 0, "L", false, 0, "")
		}
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(valueColWidth, rowHeight, tr(line), "", 1, "L", false, 0, "")
	}
}

// drawOptionalRow skips empty values entirely so later sections shift up.
func drawOptionalRow(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		return
	}
	drawRow(pdf, tr, label, value)
}

func drawResultBadge(pdf *gofpdf.Fpdf, tr func(string) string, passed bool) {
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(labelColWidth, rowHeight, tr("Resultado"), "", 0, "L", false, 0, "")
	label := "NO APROBADO"
	if passed {
		label = "APROBADO"
		pdf.SetFillColor(46, 125, 50)
	} else {
		pdf.SetFillColor(183, 28, 28)
	}
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(36, rowHeight, tr(label), "", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func drawSignatures(pdf *gofpdf.Fpdf, tr func(string) string, record *models.ComplianceRecord) {
	pdf.Ln(14)
	y := pdf.GetY()
	pdf.SetDrawColor(60, 60, 60)
	pdf.Line(25, y, 90, y)
	pdf.Line(120, y, 185, y)
	pdf.SetFont("Arial", "", 8)
	pdf.SetY(y + 1)
	pdf.SetX(25)
	pdf.CellFormat(65, 4, tr(record.Employer.LegalRepresentative), "", 0, "C", false, 0, "")
	pdf.SetX(120)
	pdf.CellFormat(65, 4, tr(record.Instructor.Name), "", 1, "C", false, 0, "")
	pdf.SetX(25)
	pdf.CellFormat(65, 4, tr("Representante legal"), "", 0, "C", false, 0, "")
	pdf.SetX(120)
	pdf.CellFormat(65, 4, tr("Instructor o agente capacitador"), "", 1, "C", false, 0, "")
}

func drawFooter(pdf *gofpdf.Fpdf, tr func(string) string, record *models.ComplianceRecord, defaultPlace string) {
	place := record.IssuePlace
	if place == "" {
		place = defaultPlace
	}
	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Expedida en %s, a %s.", place, formatLongDate(record.IssuedAt))), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Documento %s · Verifique la vigencia con el empleador.", record.ID)), "", 1, "C", false, 0, "")
}

func formatFolio(folio int64) string {
	return fmt.Sprintf("C-%06d", folio)
}

func formatPeriod(start, end *time.Time) string {
	if start == nil && end == nil {
		return ""
	}
	from, to := "", ""
	if start != nil {
		from = start.Format("02/01/2006")
	}
	if end != nil {
		to = end.Format("02/01/2006")
	}
	switch {
	case from == "":
		return fmt.Sprintf("hasta %s", to)
	case to == "":
		return fmt.Sprintf("desde %s", from)
	default:
		return fmt.Sprintf("%s al %s", from, to)
	}
}

func formatLongDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

func modalityLabel(m models.Modality) string {
	switch m {
	case models.ModalityOnsite:
		return "Presencial"
	case models.ModalityOnline:
		return "En línea"
	case models.ModalityMixed:
		return "Mixta"
	default:
		return string(m)
	}
}

func instructorLabel(t models.InstructorType) string {
	switch t {
	case models.InstructorInternal:
		return "Instructor interno"
	case models.InstructorExternalAgent:
		return "Agente capacitador externo"
	default:
		return string(t)
	}
}

// wrapText greedily wraps s into lines of at most budget runes, splitting
// on spaces. Overlong words are hard-split.
func wrapText(s string, budget int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{""}
	}
	var lines []string
	var current []rune
	for _, word := range strings.Fields(s) {
		runes := []rune(word)
		for len(runes) > budget {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(runes[:budget]))
			runes = runes[budget:]
		}
		switch {
		case len(current) == 0:
			current = runes
		case len(current)+1+len(runes) <= budget:
			current = append(current, ' ')
			current = append(current, runes...)
		default:
			lines = append(lines, string(current))
			current = runes
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
