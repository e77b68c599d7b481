package web

import (
	"context"

	"github.com/yigit/collegerecords/internal/app/models"
)

func (h *Handler) courseOptions(ctx context.Context, selected int64) ([]option, error) {
	courses, err := h.courses.ListCourses(ctx, nil)
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(courses))
	for _, c := range courses {
		opts = append(opts, option{
			Value:    idString(c.ID),
			Label:    c.CourseCode + " " + c.CourseName,
			Selected: c.ID == selected,
		})
	}
	return opts, nil
}

// studentOptions lists every student, marking the ids in selected
func (h *Handler) studentOptions(ctx context.Context, selected ...int64) ([]option, error) {
	students, err := h.students.ListStudents(ctx, nil)
	if err != nil {
		return nil, err
	}
	chosen := make(map[int64]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}
	opts := make([]option, 0, len(students))
	for _, s := range students {
		opts = append(opts, option{
			Value:    idString(s.ID),
			Label:    s.FullName() + " (" + s.Email + ")",
			Selected: chosen[s.ID],
		})
	}
	return opts, nil
}

func (h *Handler) batchOptions(ctx context.Context, selected int64) ([]option, error) {
	batches, err := h.batches.ListBatches(ctx, nil)
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(batches))
	for _, b := range batches {
		opts = append(opts, option{
			Value:    idString(b.ID),
			Label:    b.BatchName + " (" + b.StartDate.String() + ")",
			Selected: b.ID == selected,
		})
	}
	return opts, nil
}

func statusOptions(selected string) []option {
	present, err := models.ParseAttendanceStatus(selected)
	known := err == nil
	return []option{
		{Value: "present", Label: models.StatusLabel(true), Selected: known && present},
		{Value: "absent", Label: models.StatusLabel(false), Selected: known && !present},
	}
}
