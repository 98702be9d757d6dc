package dictionary

import (
	"math/rand"
	"strings"

	"codeberg.org/snonux/palabra/internal/words"
)

// Pool is the built-in word list
var Pool = []words.Pair{
	{Spanish: "Abeja", Russian: "Пчела"}, {Spanish: "Abrazo", Russian: "Объятие"},
	{Spanish: "Abuela", Russian: "Бабушка"}, {Spanish: "Abuelo", Russian: "Дедушка"},
	{Spanish: "Agua", Russian: "Вода"}, {Spanish: "Aire", Russian: "Воздух"},
	{Spanish: "Alegría", Russian: "Радость"}, {Spanish: "Alma", Russian: "Душа"},
	{Spanish: "Amigo", Russian: "Друг"}, {Spanish: "Amor", Russian: "Любовь"},
	{Spanish: "Árbol", Russian: "Дерево"}, {Spanish: "Arena", Russian: "Песок"},
	{Spanish: "Arte", Russian: "Искусство"}, {Spanish: "Azúcar", Russian: "Сахар"},
	{Spanish: "Azul", Russian: "Синий"}, {Spanish: "Baile", Russian: "Танец"},
	{Spanish: "Barco", Russian: "Корабль"}, {Spanish: "Beso", Russian: "Поцелуй"},
	{Spanish: "Bicicleta", Russian: "Велосипед"}, {Spanish: "Blanco", Russian: "Белый"},
	{Spanish: "Boca", Russian: "Рот"}, {Spanish: "Bosque", Russian: "Лес"},
	{Spanish: "Buen", Russian: "Хороший"}, {Spanish: "Buscar", Russian: "Искать"},
	{Spanish: "Caballo", Russian: "Лошадь"}, {Spanish: "Cabeza", Russian: "Голова"},
	{Spanish: "Cielo", Russian: "Небо"}, {Spanish: "Ciudad", Russian: "Город"},
	{Spanish: "Coche", Russian: "Машина"}, {Spanish: "Comer", Russian: "Есть"},
	{Spanish: "Corazón", Russian: "Сердце"}, {Spanish: "Cuerpo", Russian: "Тело"},
	{Spanish: "Dedo", Russian: "Палец"}, {Spanish: "Deseo", Russian: "Желание"},
	{Spanish: "Día", Russian: "День"}, {Spanish: "Dinero", Russian: "Деньги"},
	{Spanish: "Dulce", Russian: "Сладкий"}, {Spanish: "Escuela", Russian: "Школа"},
	{Spanish: "Estrella", Russian: "Звезда"}, {Spanish: "Felicidad", Russian: "Счастье"},
	{Spanish: "Flor", Russian: "Цветок"}, {Spanish: "Fuego", Russian: "Огонь"},
	{Spanish: "Gato", Russian: "Кот"}, {Spanish: "Gracias", Russian: "Спасибо"},
	{Spanish: "Hablar", Russian: "Говорить"}, {Spanish: "Hacer", Russian: "Делать"},
	{Spanish: "Hermano", Russian: "Брат"}, {Spanish: "Hijo", Russian: "Сын"},
	{Spanish: "Hola", Russian: "Привет"}, {Spanish: "Hombre", Russian: "Мужчина"},
	{Spanish: "Idea", Russian: "Идея"}, {Spanish: "Isla", Russian: "Остров"},
	{Spanish: "Juego", Russian: "Игра"}, {Spanish: "Libro", Russian: "Книга"},
	{Spanish: "Luz", Russian: "Свет"}, {Spanish: "Madre", Russian: "Мать"},
	{Spanish: "Mano", Russian: "Рука"}, {Spanish: "Mar", Russian: "Море"},
	{Spanish: "Mundo", Russian: "Мир"}, {Spanish: "Noche", Russian: "Ночь"},
	{Spanish: "Nombre", Russian: "Имя"}, {Spanish: "Nuevo", Russian: "Новый"},
	{Spanish: "Ojo", Russian: "Глаз"}, {Spanish: "Padre", Russian: "Отец"},
	{Spanish: "Pan", Russian: "Хлеб"}, {Spanish: "Paz", Russian: "Мир"},
	{Spanish: "Perro", Russian: "Собака"}, {Spanish: "Persona", Russian: "Человек"},
	{Spanish: "Playa", Russian: "Пляж"}, {Spanish: "Puerta", Russian: "Дверь"},
	{Spanish: "Querer", Russian: "Хотеть"}, {Spanish: "Sol", Russian: "Солнце"},
	{Spanish: "Tiempo", Russian: "Время"}, {Spanish: "Vida", Russian: "Жизнь"},
}

// Candidates returns the pool entries whose Spanish word starts with letter.
// An empty letter or "All" selects the whole pool, and so does a letter
// without matches.
func Candidates(letter string) []words.Pair {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" || letter == "ALL" {
		return Pool
	}

	var pool []words.Pair
	for _, p := range Pool {
		if strings.HasPrefix(strings.ToUpper(p.Spanish), letter) {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return Pool
	}
	return pool
}

// RandomWord picks a word for the given starting letter
func RandomWord(letter string) words.Pair {
	return Pick(rand.New(rand.NewSource(rand.Int63())), letter)
}

// Pick is RandomWord with an explicit random source
func Pick(r *rand.Rand, letter string) words.Pair {
	pool := Candidates(letter)
	return pool[r.Intn(len(pool))]
}
