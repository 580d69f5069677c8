// Package userdata содержит доменную модель учебных данных TrackMyStudy Hub.
//
// Это ядро бизнес-логики системы. Пакет определяет:
//
//   - Корневой агрегат UserData: предметы, цели, расписание, сессии,
//     посещаемость, стресс, стрик
//   - Перерасчёты (Recomputations): дневная статистика, аналитика целей,
//     обновление стрика
//   - Интерфейс репозитория: Repository (реализация в infrastructure)
//
// # Архитектурные принципы
//
// Пакет следует принципам Clean Architecture и DDD:
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - интерфейс репозитория реализуется в infrastructure
//  3. Rich Domain Model - бизнес-логика инкапсулирована в агрегате
//
// # Инварианты агрегата
//
//   - weeklySchedule всегда содержит ровно 7 ключей дней недели (lowercase)
//   - baselineData записывается один раз и далее неизменен
//   - per-date коллекции хранят не более одной записи на дату
//   - ограниченные коллекции отбрасывают старейшие записи:
//     performanceHistory - 10, dailyStats/goalAnalytics/stressRecords/streakHistory - 30
//   - longestStreak монотонно не убывает
//
// # Пример использования
//
//	data := userdata.Default()
//	session := userdata.NewStudySession(id, 45, "Math", timeutil.Now())
//	data.AddSession(session)
//
//	if completed, ok := data.CompleteSession(id, timeutil.Now()); ok {
//	    stat := userdata.RebuildDailyStats(data.StudySessions, completed.Date)
//	    data.ApplyDailyStats(stat)
//	    data.StudyStreak.RecordStudyDay(stat, timeutil.Now())
//	}
package userdata
