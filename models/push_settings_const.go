package models

type SpacePushSettingCode string

type PushTpl struct {
	Name  string
	Title string
	Msg   string
}

var PushCodeMap = map[SpacePushSettingCode]PushTpl{
	PushJobApproved:        {Name: "Согласование работы", Title: "Работа согласована", Msg: "Работа «%v» была согласована пользователем %v."},
	PushJobRejected:        {Name: "Отклонение работы", Title: "Работа отклонена", Msg: "Работа «%v» была отклонена пользователем %v: %v."},
	PushJobAssigned:        {Name: "Назначение исполнителя", Title: "Вам назначена работа", Msg: "Вы назначены исполнителем работы «%v». Срок: %v."},
	PushJobManualAssign:    {Name: "Требуется ручное назначение", Title: "Требуется назначить исполнителя", Msg: "Работа «%v» согласована, но исполнитель не определён. Назначьте исполнителя вручную."},
	PushJobCancelled:       {Name: "Отмена работы", Title: "Работа отменена", Msg: "Работа «%v» отменена: %v."},
	PushJobCompleted:       {Name: "Завершение работы", Title: "Работа завершена", Msg: "Работа «%v» завершена исполнителем %v."},
	PushJobUnblocked:       {Name: "Работа разблокирована", Title: "Можно приступать к работе", Msg: "Предшествующая работа завершена, работа «%v» переведена в производство. Срок: %v."},
	PushJobDueDateShifted:  {Name: "Сдвиг срока из-за срочной работы", Title: "Срок работы изменён", Msg: "Срок работы «%v» сдвинут на %v дн. из-за срочной работы."},
	PushParentJobRejected:  {Name: "Отклонена родительская работа", Title: "Отклонена родительская работа", Msg: "Родительская работа «%v» отклонена. Ваша работа «%v» остаётся в производстве, уточните приоритеты у менеджера."},
	PushRejectionRequested: {Name: "Запрос отказа от работы", Title: "Исполнитель просит отказ", Msg: "Исполнитель %v просит отказ от работы «%v»: %v."},
	PushRejectionApproved:  {Name: "Отказ согласован", Title: "Отказ от работы согласован", Msg: "Отказ от работы «%v» согласован."},
	PushRejectionDenied:    {Name: "Отказ отклонён", Title: "В отказе отказано", Msg: "В отказе от работы «%v» отказано: %v. Запросите продление срока."},
}

const (
	PushJobApproved        SpacePushSettingCode = "PushJobApproved"
	PushJobRejected        SpacePushSettingCode = "PushJobRejected"
	PushJobAssigned        SpacePushSettingCode = "PushJobAssigned"
	PushJobManualAssign    SpacePushSettingCode = "PushJobManualAssign"
	PushJobCancelled       SpacePushSettingCode = "PushJobCancelled"
	PushJobCompleted       SpacePushSettingCode = "PushJobCompleted"
	PushJobUnblocked       SpacePushSettingCode = "PushJobUnblocked"
	PushJobDueDateShifted  SpacePushSettingCode = "PushJobDueDateShifted"
	PushParentJobRejected  SpacePushSettingCode = "PushParentJobRejected"
	PushRejectionRequested SpacePushSettingCode = "PushRejectionRequested"
	PushRejectionApproved  SpacePushSettingCode = "PushRejectionApproved"
	PushRejectionDenied    SpacePushSettingCode = "PushRejectionDenied"
)

type NotificationData struct {
	Code  SpacePushSettingCode
	Msg   string
	Title string
}
