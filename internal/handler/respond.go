package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/HassanSheikh1033/lms-platform/internal/domain/order"
)

// genericFailureMessage is deliberately non-descriptive: clients cannot
// distinguish upstream failures from persistence failures; the cause is
// logged server-side only.
const genericFailureMessage = "Some error occurred!"

func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(false)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, status, &e)
}

func writeOrderCreated(w http.ResponseWriter, res *order.CreateOrderResult) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(true)
	e.FieldStart("data")
	e.ObjStart()
	e.FieldStart("clientSecret")
	e.Str(res.ClientSecret)
	e.FieldStart("orderId")
	e.Str(res.OrderID)
	e.ObjEnd()
	e.ObjEnd()
	writeJSON(w, http.StatusCreated, &e)
}

func writeOrderConfirmed(w http.ResponseWriter, o *order.Order) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(true)
	e.FieldStart("message")
	e.Str("Order confirmed")
	e.FieldStart("data")
	encodeOrder(&e, o)
	e.ObjEnd()
	writeJSON(w, http.StatusOK, &e)
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("userId")
	e.Str(o.UserID)
	e.FieldStart("userName")
	e.Str(o.UserName)
	e.FieldStart("userEmail")
	e.Str(o.UserEmail)
	e.FieldStart("orderStatus")
	e.Str(string(o.OrderStatus))
	e.FieldStart("paymentMethod")
	e.Str(o.PaymentMethod)
	e.FieldStart("paymentStatus")
	e.Str(string(o.PaymentStatus))
	e.FieldStart("orderDate")
	e.Str(o.OrderDate.UTC().Format(time.RFC3339))
	e.FieldStart("instructorId")
	e.Str(o.InstructorID)
	e.FieldStart("instructorName")
	e.Str(o.InstructorName)
	e.FieldStart("courseImage")
	e.Str(o.CourseImage)
	e.FieldStart("courseTitle")
	e.Str(o.CourseTitle)
	e.FieldStart("courseId")
	e.Str(o.CourseID)
	e.FieldStart("coursePricing")
	e.Num(jx.Num(o.CoursePricing.String()))
	e.FieldStart("paymentId")
	e.Str(o.PaymentIntentID)
	e.ObjEnd()
}
