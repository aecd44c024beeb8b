package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracebti/admissions-api/internal/models"
)

func TestContentRepositoryListHeroSlidesActiveOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "image_url", "order_index", "is_active", "created_at"}).
		AddRow("slide-1", "Welcome", "http://localhost/files/hero-carousel/1.jpg", 1, true, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM hero_carousel WHERE is_active = TRUE ORDER BY order_index ASC").
		WillReturnRows(rows)

	slides, err := repo.ListHeroSlides(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, "slide-1", slides[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryListNewsEventsOrdersByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "description", "date", "image_url", "read_more_link", "start_time", "is_active", "created_at"}).
		AddRow("ev-1", "Open Day", "Campus open day", time.Now(), nil, nil, nil, true, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM news_events WHERE is_active = TRUE ORDER BY date DESC").
		WillReturnRows(rows)

	events, err := repo.ListNewsEvents(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Open Day", events[0].Title)
}

func TestContentRepositoryCreateTestimonial(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectExec("INSERT INTO testimonials").WillReturnResult(sqlmock.NewResult(1, 1))

	testimonial := &models.Testimonial{
		ID:        "t-1",
		Text:      "The training changed my ministry.",
		Author:    "John",
		Title:     "Alumnus",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateTestimonial(context.Background(), testimonial))
	require.NoError(t, mock.ExpectationsWereMet())
}
