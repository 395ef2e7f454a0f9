package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"azizpoultry/a/domain"
	"azizpoultry/a/internal/localstore"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
)

var userRoles = map[string]bool{"admin": true, "operator": true, "staff": true}

type authClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(userID, role string) (string, error) {
	claims := authClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized", "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Validation error", "name, email and password are required")
		return
	}
	role := req.Role
	if role == "" {
		role = "staff"
	}
	if !userRoles[role] {
		respondError(w, http.StatusBadRequest, "Validation error", "role must be admin, operator or staff")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	users, err := localstore.List[domain.User](h.store, localstore.KeyUsers)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	for _, u := range users {
		if strings.ToLower(u.Email) == email {
			respondError(w, http.StatusConflict, "Conflict", "email already exists")
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", "unable to secure password")
		return
	}

	user := domain.User{
		ID:       h.store.NewID(),
		Name:     req.Name,
		Email:    email,
		Phone:    req.Phone,
		Password: string(hashed),
		Role:     role,
		JoinDate: time.Now().Format("2006-01-02"),
	}
	if err := localstore.Append(h.store, localstore.KeyUsers, user); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	token, err := h.generateToken(user.ID, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", "unable to generate token")
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}

	users, err := localstore.List[domain.User](h.store, localstore.KeyUsers)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user *domain.User
	for i := range users {
		if strings.ToLower(users[i].Email) == email {
			user = &users[i]
			break
		}
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
		return
	}

	token, err := h.generateToken(user.ID, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", "unable to generate token")
		return
	}

	user.Password = ""
	// Session marker the dashboard reads on load.
	if err := h.store.Put(localstore.KeySession, user); err != nil {
		h.log.Warn("unable to persist session marker", zap.Error(err))
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: *user})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(ctxUserID).(string)

	users, err := localstore.List[domain.User](h.store, localstore.KeyUsers)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	for _, u := range users {
		if u.ID == userID {
			u.Password = ""
			respondJSON(w, http.StatusOK, u)
			return
		}
	}
	respondError(w, http.StatusNotFound, "Not found", "user not found")
}
