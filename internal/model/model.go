package model

type GenerateBlogRequest struct {
	DailyReport  string `json:"dailyReport"`
	TargetLength int    `json:"targetLength"`
	Tone         string `json:"tone"`
}

// BlogDraft is an unsaved generation result returned for review.
type BlogDraft struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	SuggestedTags []string `json:"suggestedTags"`
}

type SaveBlogRequest struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Excerpt        string   `json:"excerpt"`
	SuggestedTags  []string `json:"suggestedTags"`
	Status         Status   `json:"status"`
	OriginalReport string   `json:"originalReport"`
}

// BlogPostPatch carries the editable fields; nil means unchanged.
type BlogPostPatch struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Excerpt *string   `json:"excerpt"`
	Tags    *[]string `json:"tags"`
	Status  *Status   `json:"status"`
}

type CreateDailyReportRequest struct {
	Date    string `json:"date"`
	Content string `json:"content" binding:"required"`
}

type GenerateOwnerMessageRequest struct {
	YearMonth string `json:"yearMonth"`
}

type PublishRequest struct {
	ID string `json:"id"`
}

type OwnerMessageFilter struct {
	Status    Status
	YearMonth string
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// ClientLogRequest is a warn/error entry forwarded by the admin frontend.
type ClientLogRequest struct {
	Level    string         `json:"level" binding:"required"`
	Category string         `json:"category"`
	Message  string         `json:"message" binding:"required"`
	Data     map[string]any `json:"data"`
}
