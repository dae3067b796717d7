package dto

const (
	EventAddProduct       = "add_product"
	EventUpdateProduct    = "update_product"
	EventDeleteProduct    = "delete_product"
	EventAddProductReview = "add_product_review"
	EventUserUpdate       = "user_update"
)

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}
