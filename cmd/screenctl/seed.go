package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"screenbot/internal/model"
	"screenbot/internal/service"
)

// seedAnswers are cycled through to build demo sessions, one answer per question in order
var seedAnswers = [][]string{
	{
		"Делегировал AI разбор 300 обращений в поддержку: классификация по темам и черновики ответов. На выходе таблица с категориями, ручная проверка заняла час вместо дня.",
		"Цепочка из трёх шагов: извлечение фактов в JSON по схеме, ответ только по извлечённым фактам, отдельный промпт-критик сверяет ответ с источником. Валидность проверял на размеченной выборке из 50 кейсов.",
		"Модель выдумала пункт договора в саммари. Добавил цитирование источника к каждому утверждению и отказ отвечать, если цитаты нет; ошибки такого рода пропали на контрольной выборке.",
		"Доля ответов, принятых без правок, время обработки обращения и число эскалаций. До запуска 40% принятых, после доработки промптов 72%.",
		"Сэкономлю на UI и инфраструктуре: готовый API и простая форма. Обязательными оставлю тестовый набор из реальных кейсов, логирование запросов и ручную проверку первых ответов.",
		"Локальная модель через vLLM или Ollama в своём контуре, RAG по внутренней базе с векторным индексом, данные не покидают периметр. Маскирование персональных данных перед логированием.",
	},
	{
		"Писал с помощью ChatGPT тексты для писем.",
		"Просто спрашивал, пока не понравится ответ.",
		"не было",
		"Смотрю, нравится ли результат.",
		"Сделаю быстро и запущу, потом поправлю.",
		"Не знаю, наверное использовал бы другой сервис.",
	},
	{
		"Автоматизировал подготовку еженедельного отчёта: AI собирает метрики из выгрузки и пишет выводы. Экономия около трёх часов в неделю.",
		"Промпт с ролью аналитика, примерами хороших выводов и требованием ссылаться на конкретные цифры. Проверял выборочно, сверяя цифры с исходной таблицей.",
		"AI перепутал рост и падение метрики. Теперь считаю дельты кодом и передаю модели готовые числа, а она только формулирует текст.",
		"Точность цифр в выводах и доля отчётов без правок руководителя. Было 5 из 10 без правок, стало 8 из 10.",
		"Возьму готовую модель по API и шаблон промпта. Обязательно оставлю проверку на нескольких реальных примерах и ручной просмотр перед отправкой.",
		"Развернул бы открытую модель на своём сервере и обращался к ней через внутренний API, без передачи данных наружу.",
	},
}

var seedLinks = []model.ProjectLink{
	{Kind: model.LinkURL, URL: "https://github.com/example/support-triage-llm"},
	{Kind: model.LinkDeclined},
	{Kind: model.LinkNDA, Note: "RAG-ассистент для юристов банка, модель в закрытом контуре."},
	{Kind: model.LinkURL, URL: "https://example.notion.site/ai-weekly-report"},
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Append demo session records",
		Long:  `Score synthetic candidates with the mock oracle and append the records to the row store.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return errors.New("--count must be positive")
			}
			ctx := cmd.Context()
			cfg := root.config()
			store, err := root.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			scoring := service.NewScoringService(service.NewMockOracle("mock"), root.logger(cmd))
			start := time.Now().UTC().Add(-time.Duration(count) * time.Hour)

			hot := 0
			for i := 0; i < count; i++ {
				payload := seedPayload(i)
				record := service.BuildRecord(start.Add(time.Duration(i)*time.Hour), payload, scoring.Evaluate(ctx, payload))
				if err := store.AppendRow(ctx, record); err != nil {
					return fmt.Errorf("failed to append record %d: %w", i+1, err)
				}
				if record.TopCandidate {
					hot++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d records, %d top candidates\n", countStyle.Render("seeded"), count, hot)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 10, "Number of records")
	return cmd
}

func seedPayload(i int) model.ScreeningPayload {
	texts := seedAnswers[i%len(seedAnswers)]
	answers := make(map[model.QuestionKey]string, len(model.QuestionKeys))
	for j, key := range model.QuestionKeys {
		answers[key] = fmt.Sprintf("%s (#%d)", texts[j], i+1)
	}
	candidate := model.Candidate{
		UserID:   int64(900000 + i),
		Username: fmt.Sprintf("seed_user_%d", i+1),
		FullName: fmt.Sprintf("Seed Candidate %d", i+1),
	}
	return model.NewScreeningPayload(candidate, answers, seedLinks[i%len(seedLinks)])
}
