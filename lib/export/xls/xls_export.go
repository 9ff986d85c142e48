package xlsexport

import (
	"bytes"
	"fmt"

	jobapimodels "creative-tools-backend/models/api/job"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportJobList(list []jobapimodels.JobView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var jobHeaders = []string{"Код", "Проект", "Вид работ", "Название", "Статус", "Приоритет", "Инициатор", "Исполнитель", "Срок", "Продлений", "Создана"}

func (i impl) ExportJobList(list []jobapimodels.JobView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, jobHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeJobData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Работы")
	return f.WriteToBuffer()
}

func writeJobData(f *excelize.File, sheet string, list []jobapimodels.JobView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(jobHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Код"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Code); err != nil {
			return row, err
		}

		// "Проект"
		col++
		if err := writeColumn(f, sheet, col, row, item.ProjectName); err != nil {
			return row, err
		}

		// "Вид работ"
		col++
		if err := writeColumn(f, sheet, col, row, item.JobTypeName); err != nil {
			return row, err
		}

		// "Название"
		col++
		if err := writeColumn(f, sheet, col, row, item.Name); err != nil {
			return row, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.StatusName); err != nil {
			return row, err
		}

		// "Приоритет"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Priority)); err != nil {
			return row, err
		}

		// "Инициатор"
		col++
		if err := writeColumn(f, sheet, col, row, item.RequesterName); err != nil {
			return row, err
		}

		// "Исполнитель"
		col++
		if err := writeColumn(f, sheet, col, row, item.AssigneeName); err != nil {
			return row, err
		}

		// "Срок"
		col++
		if item.DueDate != nil {
			due := item.DueDate.Format("02.01.2006")
			if item.OriginalDue != nil && !item.OriginalDue.Equal(*item.DueDate) {
				due = fmt.Sprintf("%v (исходно %v)", due, item.OriginalDue.Format("02.01.2006"))
			}
			if err := writeColumn(f, sheet, col, row, due); err != nil {
				return row, err
			}
		}

		// "Продлений"
		col++
		if err := writeColumn(f, sheet, col, row, item.ExtensionCount); err != nil {
			return row, err
		}

		// "Создана"
		col++
		if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format("02.01.2006")); err != nil {
			return row, err
		}
	}
	return row, nil
}
