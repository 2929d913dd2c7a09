package converter

import (
	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
// Includes ProfessionalProfile and ClientProfile if they are loaded
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role.RoleName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.ProfessionalProfile != nil {
		response.ProfessionalProfile = ProfessionalProfileToResponse(user.ProfessionalProfile)
	}

	if user.ClientProfile != nil {
		response.ClientProfile = &dto.ClientProfileResponse{
			UserID:      user.ClientProfile.UserID,
			PhoneNumber: user.ClientProfile.PhoneNumber,
			PostalCode:  user.ClientProfile.PostalCode,
			Address:     user.ClientProfile.Address,
			DateOfBirth: user.ClientProfile.DateOfBirth.Format("2006-01-02"),
		}
	}

	return response
}
