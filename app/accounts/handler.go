package accounts

import (
	"net/http"

	"github.com/ankproject/ank-api/app/auth"
	"github.com/ankproject/ank-api/internal/errors"
	"github.com/ankproject/ank-api/internal/metrics"
	"github.com/ankproject/ank-api/internal/responses"
	"github.com/ankproject/ank-api/pkg/logging"

	"github.com/go-chi/render"
)

// Handler serves POST /v1/account for requests authenticated by auth.Middleware.
type Handler struct {
	provisioner *Provisioner
	logger      logging.KVLogger
}

func NewHandler(provisioner *Provisioner, logger logging.KVLogger) *Handler {
	if logger == nil {
		logger = logging.NoopKVLogger{}
	}
	return &Handler{provisioner: provisioner, logger: logger}
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	metrics.AddObserver(r, metrics.ProvisionDurations)

	identity, err := auth.FromRequest(r)
	if err != nil {
		h.logger.Warn("request reached accounts handler unauthenticated", "err", err)
		responses.Detail(w, http.StatusUnauthorized, responses.AuthRequiredErrorMessage)
		return
	}
	log := h.requestLogger(r, identity)

	body := r.Body
	if body != nil {
		body = http.MaxBytesReader(w, body, MaxRequestBodyBytes)
	}
	req, err := DecodeCreateAccountRequest(body)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}

	res, err := h.provisioner.Provision(r.Context(), identity.UID, identity.Email, req)
	if err != nil {
		if res != nil {
			log = log.With("account_id", res.AccountID)
		}
		h.fail(w, r, log, err)
		return
	}

	metrics.AccountsCreated.Inc()
	if res.ProfileCreated {
		metrics.ProfilesCreated.Inc()
	}
	log.Info("account provisioned",
		"account_id", res.AccountID,
		"profile_created", res.ProfileCreated,
		"duration", metrics.GetDuration(r),
	)
	render.Render(w, r, ResponseAccountCreated(res.AccountID))
}

// requestLogger prefers the logger auth.Middleware put in context, it already carries the identity.
func (h *Handler) requestLogger(r *http.Request, identity *auth.Identity) logging.KVLogger {
	l := logging.GetFromContext(r.Context())
	if _, ok := l.(logging.NoopKVLogger); ok {
		return logging.TracedLogger(h.logger, identity)
	}
	return l
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log logging.KVLogger, err error) {
	kind := errorKind(err)
	metrics.ProvisionErrors.WithLabelValues(kind).Inc()
	if kind == metrics.ErrorKindStorage {
		log.Error("account provisioning failed", "err", err, "trace", errors.Trace(err))
	} else {
		log.Info("account request rejected", "reason", err.Error())
	}
	render.Render(w, r, ErrResponse(err))
}
