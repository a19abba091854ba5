package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"localmart/models"
	"localmart/store"
	"localmart/utils"
)

// UserController handles account registration, login and profile requests
type UserController struct {
	Accounts     store.AccountStore
	EmailService *utils.EmailService
}

func NewUserController(accounts store.AccountStore, emailService *utils.EmailService) *UserController {
	return &UserController{Accounts: accounts, EmailService: emailService}
}

// Register handles account registration. Everyone starts as a customer;
// shop-owner roles come from the onboarding flow, never from registration.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string         `json:"name"`
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Address  models.Address `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		Address:  input.Address,
		Role:     models.RoleCustomer,
	}

	id, err := uc.Accounts.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			respondError(w, http.StatusBadRequest, "email already registered")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	user.ID = id

	// Welcome email is best-effort.
	if uc.EmailService != nil {
		go func(name, email string) {
			body := "<strong>Welcome to Localmart, " + name + "!</strong><br><br>Browse your local shops and start filling your cart."
			if err := uc.EmailService.SendEmail(email, "Welcome to Localmart", body); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", email, err)
			}
		}(user.Name, user.Email)
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login checks credentials and hands out a JWT
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	user, err := uc.Accounts.GetByEmail(r.Context(), credentials.Email)
	if err != nil {
		// Same message whether the account or the password is wrong.
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetProfile returns the authenticated account
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentActor(w, r, uc.Accounts)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, user)
}
