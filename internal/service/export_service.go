package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/pkg/export"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	TimestampedName(prefix, ext string) string
}

// ExportResult describes a written export file.
type ExportResult struct {
	Path   string
	Format export.Format
	Rows   int
}

// ExportService renders list views to CSV, PDF or XLSX files.
type ExportService struct {
	storage fileStorage
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(storage fileStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{storage: storage, logger: logger}
}

// CoursesDataset tabulates courses in dashboard column order. term is the
// search the rows were filtered with, if any.
func CoursesDataset(title, term string, courses []models.Course) export.Dataset {
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{c.ID.String(), c.Name, string(c.Category), c.Level.String(), c.Popularity.String()})
	}
	return export.Dataset{
		Title:    title,
		Subtitle: viewSubtitle(term, len(rows)),
		Headers:  []string{"ID", "Course", "Category", "Level", "Popularity"},
		Rows:     rows,
	}
}

// EnrollmentsDataset tabulates a student's enrollments.
func EnrollmentsDataset(title, term string, enrollments []models.Enrollment) export.Dataset {
	rows := make([][]string, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, []string{e.ID.String(), e.Name, string(e.Category), e.Level.String()})
	}
	return export.Dataset{
		Title:    title,
		Subtitle: viewSubtitle(term, len(rows)),
		Headers:  []string{"Enrollment", "Course", "Category", "Level"},
		Rows:     rows,
	}
}

func viewSubtitle(term string, n int) string {
	if term != "" {
		return fmt.Sprintf("%d rows matching %q", n, term)
	}
	return fmt.Sprintf("%d rows", n)
}

// Export renders data in format and stores it under a timestamped name
// starting with prefix.
func (s *ExportService) Export(prefix string, format export.Format, data export.Dataset) (*ExportResult, error) {
	renderer, err := export.RendererFor(format)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	content, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to render %s export", format))
	}
	path, err := s.storage.Save(s.storage.TimestampedName(prefix, format.Extension()), content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	s.logger.Info("export written", zap.String("path", path), zap.String("format", string(format)), zap.Int("rows", len(data.Rows)))
	return &ExportResult{Path: path, Format: format, Rows: len(data.Rows)}, nil
}
