package document

import "github.com/medchat/docchat-backend/internal/entity"

func toListResponse(documents []*entity.Document) entity.ListDocumentsResponse {
	dtos := make([]*entity.DocumentDTO, 0, len(documents))
	for _, doc := range documents {
		dtos = append(dtos, &entity.DocumentDTO{
			ID:               doc.ID,
			Filename:         doc.Filename,
			OriginalFilename: doc.OriginalFilename,
			FileSize:         doc.FileSize,
			UploadTime:       doc.UploadTime,
			TotalChunks:      doc.TotalChunks,
		})
	}

	return entity.ListDocumentsResponse{Documents: dtos}
}
