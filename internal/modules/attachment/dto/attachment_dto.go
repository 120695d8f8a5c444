package dto

const (
	FolderAttachments = "attachments"
	FolderAvatars     = "avatars"
)

type UploadForm struct {
	Folder string `form:"folder" binding:"omitempty,oneof=attachments avatars"`
}

type UploadAttachmentResponse struct {
	URL      string `json:"url"`
	FileType string `json:"file_type"`
}
