package models

// UploadURLRequest asks for a presigned upload URL.
type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required" example:"image/jpeg"`
}

// UploadURLResponse carries the presigned PUT URL and the key to store
// on the document once the upload completes.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl" example:"https://s3.example.com/tours/users/5c8a/abc.jpg?X-Amz-Signature=..."`
	Key       string `json:"key" example:"users/5c8a1d5b0190b214360dc057/8b0c4a1e.jpg"`
	ExpiresIn int    `json:"expiresIn" example:"900"`
}
