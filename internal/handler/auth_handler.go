package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/GrabRush/grabrush-app/internal/model"
	"github.com/GrabRush/grabrush-app/pkg/database"
	"github.com/GrabRush/grabrush-app/pkg/jwtutil"
	"github.com/GrabRush/grabrush-app/pkg/logger"
	"github.com/GrabRush/grabrush-app/pkg/mailer"
	"github.com/GrabRush/grabrush-app/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SendVerificationRequest starts the registration flow for an email
type SendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendVerification creates or refreshes a pending account for the email
// and mails the registration link. Emails already registered as a
// customer or a vendor are rejected.
func SendVerification(c echo.Context) error {
	log := logger.FromContext(c)

	var req SendVerificationRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	if emailRegistered(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Email already registered"})
	}

	token, err := newVerificationToken()
	if err != nil {
		log.Error("Failed to generate verification token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to send verification email"})
	}

	// One pending row per email; a repeat request refreshes the token
	var pending model.PendingAccount
	result := database.GetDB().Where("email = ?", req.Email).First(&pending)
	switch {
	case result.Error == nil:
		if err := database.GetDB().Model(&pending).Update("token", token).Error; err != nil {
			log.Error("Failed to refresh verification token", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to send verification email"})
		}
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		pending = model.PendingAccount{Email: req.Email, Token: token}
		if err := database.GetDB().Create(&pending).Error; err != nil {
			log.Error("Failed to create pending account", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to send verification email"})
		}
	default:
		log.Error("Failed to look up pending account", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to send verification email"})
	}

	if err := mailer.Get().SendVerification(req.Email, token); err != nil {
		log.Error("Email sending failed", zap.String("email", req.Email), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to send verification email"})
	}

	log.Info("Verification email sent", zap.String("email", req.Email))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Verification email sent"})
}

// RegisterRequest completes a pending registration. The role is chosen
// here; role-specific profile fields are checked in the handler.
type RegisterRequest struct {
	Role     string `json:"role" validate:"required,oneof=customer vendor"`
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`

	// Customer profile
	Name   string `json:"name"`
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
	Phone  string `json:"phone"`

	// Vendor profile
	BusinessName    string `json:"business_name"`
	Location        string `json:"location"`
	BusinessContact string `json:"business_contact"`
}

// Register promotes a pending account into a customer or vendor row and
// removes the pending record, in one transaction.
func Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req RegisterRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	if details := roleFieldErrors(&req); len(details) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Validation failed",
			"details": details,
		})
	}

	var pending model.PendingAccount
	result := database.GetDB().Where("email = ? AND token = ?", req.Email, req.Token).First(&pending)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid or expired verification token"})
		}
		log.Error("Failed to look up pending account", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Registration failed"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Registration failed"})
	}

	var accountID uint
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if req.Role == jwtutil.RoleVendor {
			vendor := model.Vendor{
				BusinessName:    req.BusinessName,
				Email:           req.Email,
				Password:        string(hashed),
				Location:        req.Location,
				BusinessContact: req.BusinessContact,
				IsVerified:      true,
			}
			if err := tx.Create(&vendor).Error; err != nil {
				return err
			}
			accountID = vendor.ID
		} else {
			user := model.User{
				Name:       req.Name,
				Email:      req.Email,
				Password:   string(hashed),
				Street:     req.Street,
				City:       req.City,
				Zip:        req.Zip,
				Phone:      req.Phone,
				IsVerified: true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			accountID = user.ID
		}
		return tx.Delete(&pending).Error
	})
	if err != nil {
		log.Error("Registration failed",
			zap.String("email", req.Email),
			zap.String("role", req.Role),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Registration failed"})
	}

	log.Info("Account registered",
		zap.Uint("account_id", accountID),
		zap.String("email", req.Email),
		zap.String("role", req.Role))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Registration successful",
		"user": echo.Map{
			"id":    accountID,
			"email": req.Email,
			"role":  req.Role,
		},
	})
}

// LoginRequest authenticates an account by email and password
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login checks customers first, vendors second, and issues a JWT
// carrying the account's role.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req LoginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	var (
		accountID uint
		name      string
		hash      string
		role      = jwtutil.RoleCustomer
	)

	var user model.User
	result := database.GetDB().Where("email = ?", req.Email).First(&user)
	if result.Error == nil {
		accountID, name, hash = user.ID, user.Name, user.Password
	} else {
		var vendor model.Vendor
		if result := database.GetDB().Where("email = ?", req.Email).First(&vendor); result.Error == nil {
			accountID, name, hash = vendor.ID, vendor.BusinessName, vendor.Password
			role = jwtutil.RoleVendor
		} else {
			prometheus.AuthErrorsCounter.Inc()
			log.Warn("Login for unknown email", zap.String("email", req.Email))
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Invalid email or password"})
		}
	}

	if hash == "" {
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Please complete your registration first"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		prometheus.AuthErrorsCounter.Inc()
		log.Warn("Invalid password", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Invalid email or password"})
	}

	token, err := jwtutil.GenerateToken(req.Email, accountID, name, role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Login failed"})
	}

	log.Info("Account logged in",
		zap.Uint("account_id", accountID),
		zap.String("email", req.Email),
		zap.String("role", role))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   token,
		"user": echo.Map{
			"id":    accountID,
			"email": req.Email,
			"name":  name,
			"role":  role,
		},
	})
}

func roleFieldErrors(req *RegisterRequest) []FieldError {
	var details []FieldError
	if req.Role == jwtutil.RoleVendor {
		if req.BusinessName == "" {
			details = append(details, FieldError{Field: "business_name", Message: "is required"})
		}
		if req.Location == "" {
			details = append(details, FieldError{Field: "location", Message: "is required"})
		}
		if req.BusinessContact == "" {
			details = append(details, FieldError{Field: "business_contact", Message: "is required"})
		}
	} else if req.Name == "" {
		details = append(details, FieldError{Field: "name", Message: "is required"})
	}
	return details
}

func emailRegistered(email string) bool {
	var count int64
	database.GetDB().Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return true
	}
	database.GetDB().Model(&model.Vendor{}).Where("email = ?", email).Count(&count)
	return count > 0
}

func newVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
