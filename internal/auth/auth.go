package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iurnickita/checkout/internal/store"
	"github.com/iurnickita/checkout/internal/token"
)

type Auth interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Middleware(h http.HandlerFunc) http.HandlerFunc
}

const (
	HeaderUserCodeKey = "userCode"
	cookieUserToken   = "checkoutUserToken"
)

type auth struct {
	store store.Store
}

func NewAuth(store store.Store) Auth {
	return &auth{store: store}
}

type credentialsJSONRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (a *auth) Register(w http.ResponseWriter, r *http.Request) {
	var creds credentialsJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if creds.Login == "" || creds.Password == "" {
		http.Error(w, "login and password required", http.StatusBadRequest)
		return
	}

	userCode, err := a.store.AuthRegister(r.Context(), creds.Login, creds.Password)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := a.setTokenCookie(w, userCode); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (a *auth) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentialsJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userCode, err := a.store.AuthLogin(r.Context(), creds.Login, creds.Password)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			http.Error(w, "wrong login or password", http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := a.setTokenCookie(w, userCode); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (a *auth) setTokenCookie(w http.ResponseWriter, userCode string) error {
	t, err := token.BuildToken(userCode)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:  cookieUserToken,
		Value: t,
		Path:  "/",
	})
	return nil
}

func (a *auth) Middleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// получение id пользователя
		userCode, err := a.getUserCode(w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		// записываем
		r.Header.Set(HeaderUserCodeKey, userCode)

		// передаём управление хендлеру
		h.ServeHTTP(w, r)
	}
}

func (a *auth) getUserCode(_ http.ResponseWriter, r *http.Request) (string, error) {
	// куки пользователя
	tokenCookie, err := r.Cookie(cookieUserToken)
	if err != nil {
		return "", err
	}
	return token.GetUserCode(tokenCookie.Value)
}
