package dto

// UpsertHeroSlideRequest creates or updates a carousel slide. The image is
// uploaded separately as multipart content.
type UpsertHeroSlideRequest struct {
	Title      string `form:"title" json:"title"`
	OrderIndex int    `form:"order_index" json:"order_index"`
	IsActive   *bool  `form:"is_active" json:"is_active"`
}

// UpsertNewsEventRequest creates or updates a news/event entry.
type UpsertNewsEventRequest struct {
	Title        string  `json:"title" validate:"required,min=2"`
	Description  string  `json:"description" validate:"required"`
	Date         string  `json:"date" validate:"required"`
	ImageURL     *string `json:"image_url"`
	ReadMoreLink *string `json:"read_more_link"`
	StartTime    *string `json:"start_time"`
	IsActive     *bool   `json:"is_active"`
}

// UpsertTestimonialRequest creates or updates a testimonial.
type UpsertTestimonialRequest struct {
	Text       string  `json:"text" validate:"required,min=2"`
	Author     string  `json:"author" validate:"required,min=2"`
	Title      string  `json:"title"`
	AvatarURL  *string `json:"avatar_url"`
	OrderIndex int     `json:"order_index"`
	IsActive   *bool   `json:"is_active"`
}
