// Package callback реализует обработчик POST /callback — уведомлений
// об оплате от CKassa. Сумма платежа строго сопоставляется с каталогом
// тарифов, повторные уведомления по одному платежу не продлевают
// подписку ещё раз.
package callback

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/darinsight/tarobot/internal/config"
	"github.com/darinsight/tarobot/internal/http/response"
	"github.com/darinsight/tarobot/internal/lib/sl"
	"github.com/darinsight/tarobot/internal/metrics"
	"github.com/darinsight/tarobot/internal/models"
	services "github.com/darinsight/tarobot/internal/services/subscription"
)

// statePaid статус подтверждённого платежа в уведомлении CKassa.
const statePaid = "PAYED"

// Service определяет бизнес-операцию активации платной подписки.
type Service interface {
	ActivatePaid(userID int64, amountKopecks int64, regPayNum string) (config.Plan, error)
}

// Notifier отправляет пользователю подтверждение оплаты в телеграм.
type Notifier interface {
	ConfirmPayment(userID int64, plan config.Plan) error
}

// Handler обработчик платёжных уведомлений.
type Handler struct {
	log      *slog.Logger
	service  Service
	notifier Notifier
	validate *validator.Validate
}

// New создаёт обработчик уведомлений об оплате.
func New(log *slog.Logger, service Service, notifier Notifier) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		notifier: notifier,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.callback"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var payload models.CallbackPayload
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		log.Error("failed to decode callback body", sl.Err(err))
		metrics.PaymentCallbacks.WithLabelValues("rejected").Inc()
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid JSON"))
		return
	}

	if err := h.validate.Struct(payload); err != nil {
		log.Error("callback validation failed", sl.Err(err))
		metrics.PaymentCallbacks.WithLabelValues("rejected").Inc()
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	log.Info("callback received",
		slog.String("state", payload.State),
		slog.String("amount", payload.Amount),
		slog.String("reg_pay_num", payload.RegPayNum))

	if !strings.EqualFold(payload.State, statePaid) {
		log.Warn("payment not confirmed", slog.String("state", payload.State))
		metrics.PaymentCallbacks.WithLabelValues("not_paid").Inc()
		render.JSON(w, r, response.OKWithMessage("payment not confirmed"))
		return
	}

	userID, err := strconv.ParseInt(payload.Property.UserID, 10, 64)
	if err != nil {
		log.Error("invalid user id in callback", sl.Err(err))
		metrics.PaymentCallbacks.WithLabelValues("rejected").Inc()
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	amount, err := strconv.ParseFloat(payload.Amount, 64)
	if err != nil {
		log.Error("invalid amount in callback", sl.Err(err))
		metrics.PaymentCallbacks.WithLabelValues("rejected").Inc()
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid amount"))
		return
	}
	amountKopecks := int64(math.Round(amount))

	plan, err := h.service.ActivatePaid(userID, amountKopecks, payload.RegPayNum)
	switch {
	case errors.Is(err, services.ErrDuplicatePayment):
		log.Warn("duplicate payment callback ignored", slog.String("reg_pay_num", payload.RegPayNum))
		metrics.PaymentCallbacks.WithLabelValues("duplicate").Inc()
		render.JSON(w, r, response.OKWithMessage("payment already processed"))
		return
	case errors.Is(err, services.ErrUnknownAmount):
		log.Error("unknown payment amount", slog.Int64("amount_kopecks", amountKopecks))
		metrics.PaymentCallbacks.WithLabelValues("rejected").Inc()
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown payment amount"))
		return
	case err != nil:
		log.Error("failed to activate subscription", sl.Err(err), sl.UserID(userID))
		metrics.PaymentCallbacks.WithLabelValues("error").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	if err := h.notifier.ConfirmPayment(userID, plan); err != nil {
		// подписка уже активна, пользователь узнает об этом из меню
		log.Error("failed to send payment confirmation", sl.Err(err), sl.UserID(userID))
	}

	log.Info("subscription activated by callback",
		sl.UserID(userID),
		slog.String("plan", plan.ID),
		slog.String("reg_pay_num", payload.RegPayNum))
	metrics.PaymentCallbacks.WithLabelValues("activated").Inc()
	render.JSON(w, r, response.OK())
}
