package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"notes-sync/internal/auth"
	"notes-sync/internal/config"
	"notes-sync/internal/logger"
	"notes-sync/internal/model"
	"notes-sync/internal/session"
	"notes-sync/internal/store"
	"notes-sync/internal/store/memory"
	"notes-sync/internal/store/sqlite"
)

const defaultConfigFile = "config.yml"

func main() {
	// Загружаем конфигурацию из файла (путь можно переопределить переменной окружения)
	configFile := os.Getenv("NOTES_CONFIG")
	if configFile == "" {
		configFile = defaultConfigFile
	}

	appConfig, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Error initializing config: %v", err)
	}

	zapLog, err := logger.New(appConfig.Logger.Level)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer zapLog.Sync()

	// Инициализация компонентов (DI): Store → Provider → Session
	var st store.Store
	switch appConfig.Store.Backend {
	case "sqlite":
		st, err = sqlite.NewStore(appConfig.Store.Path)
		if err != nil {
			log.Fatalf("Error opening sqlite store: %v", err)
		}
		zapLog.Info("initialized sqlite store")
	default:
		st = memory.NewStore()
		zapLog.Info("initialized in-memory store (map-based)")
	}

	// Ограничиваем частоту исходящих запросов к хранилищу
	st = store.WithRateLimit(st, appConfig.Store.RateLimitRPS, appConfig.Store.RateLimitBurst)

	provider := auth.NewStaticProvider()
	sess := session.New(st, provider, zapLog)
	sess.Listen()

	demoUser := model.User{
		ID:       appConfig.Session.DemoUserID,
		Username: appConfig.Session.DemoUsername,
	}
	provider.Login(demoUser)
	sess.Wait()

	fmt.Printf("Logged in as %s. Type 'help' for commands.\n", demoUser.ID)

	shell(sess, provider, demoUser)

	// Дожидаемся завершения незавершенных операций перед выходом
	sess.Close()
	zapLog.Info("shutdown complete")
}

// shell интерактивный цикл команд. Каждая команда вызывает операцию
// сессии, дожидается завершения удаленных вызовов и печатает
// одноразовое сообщение о результате
func shell(sess *session.Session, provider *auth.StaticProvider, demoUser model.User) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		printPrompt(sess)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "help":
			printHelp()

		case "folders":
			printFolders(sess)

		case "select":
			if folder, ok := resolveFolder(sess, rest); ok {
				sess.SelectFolder(folder)
				sess.Wait()
				printNotes(sess)
			} else {
				fmt.Println("Unknown folder:", rest)
			}

		case "mkdir":
			run(sess, sess.AddFolder(rest))

		case "rename":
			run(sess, sess.RenameSelectedFolder(rest))

		case "rmdir":
			if folder, ok := resolveFolder(sess, rest); ok {
				run(sess, sess.DeleteFolder(folder.ID))
			} else {
				fmt.Println("Unknown folder:", rest)
			}

		case "notes":
			if folder := sess.SelectedFolder.Get(); folder != nil {
				run(sess, sess.FetchNotesForFolder(folder.ID))
				printNotes(sess)
			} else {
				fmt.Println("No folder selected")
			}

		case "all":
			run(sess, sess.FetchAllNotes())
			printNotes(sess)

		case "add":
			title, content, ok := strings.Cut(rest, "|")
			if !ok {
				fmt.Println("Usage: add <title> | <content>")
				continue
			}
			run(sess, sess.AddOrUpdateNote(model.Note{
				Title:   strings.TrimSpace(title),
				Content: strings.TrimSpace(content),
			}))

		case "open":
			if note, ok := resolveNote(sess, rest); ok {
				sess.SelectNote(note)
				fmt.Printf("--- %s ---\n%s\n", note.Title, note.Content)
			} else {
				fmt.Println("Unknown note:", rest)
			}

		case "edit":
			idx, body, ok := strings.Cut(rest, " ")
			if !ok {
				fmt.Println("Usage: edit <index> <title> | <content>")
				continue
			}
			note, found := resolveNote(sess, idx)
			if !found {
				fmt.Println("Unknown note:", idx)
				continue
			}
			title, content, ok := strings.Cut(body, "|")
			if !ok {
				fmt.Println("Usage: edit <index> <title> | <content>")
				continue
			}
			note.Title = strings.TrimSpace(title)
			note.Content = strings.TrimSpace(content)
			run(sess, sess.AddOrUpdateNote(note))

		case "rm":
			if rest == "" {
				run(sess, sess.DeleteSelectedNote())
			} else if note, ok := resolveNote(sess, rest); ok {
				run(sess, sess.DeleteNote(note.ID))
			} else {
				fmt.Println("Unknown note:", rest)
			}

		case "clear":
			run(sess, sess.DeleteAllNotes())
			printNotes(sess)

		case "logout":
			sess.OnAuthChanged(nil)
			sess.Wait()
			fmt.Println("Logged out")

		case "login":
			provider.Login(demoUser)
			sess.Wait()
			fmt.Println("Logged in as", demoUser.ID)

		case "quit", "exit":
			return

		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

// run дожидается завершения операции и печатает её результат.
// Синхронные отказы (валидация, защита папки по умолчанию) приходят
// как ошибка, асинхронные результаты — через сообщение сессии
func run(sess *session.Session, err error) {
	sess.Wait()
	if msg := sess.ConsumeStatus(); msg != "" {
		fmt.Println(msg)
		return
	}
	if err != nil {
		fmt.Println("Error:", err)
	}
}

func printPrompt(sess *session.Session) {
	name := "-"
	if folder := sess.SelectedFolder.Get(); folder != nil {
		name = folder.Name
	}
	fmt.Printf("[%s]> ", name)
}

func printHelp() {
	fmt.Println(`Commands:
  folders                    list folders
  select <name|index>        select folder and show its notes
  mkdir <name>               create folder
  rename <new name>          rename selected folder
  rmdir <name|index>         delete folder with its notes
  notes                      list notes of selected folder
  all                        list all notes of the user
  add <title> | <content>    create note in selected folder
  open <index>               show note content
  edit <index> <title> | <content>   update note
  rm [index]                 delete note (selected if no index)
  clear                      delete all notes in selected folder
  logout / login             switch session state
  quit`)
}

func printFolders(sess *session.Session) {
	if id := sess.DefaultFolderID.Get(); id != "" {
		fmt.Println("  0. Default")
	}
	for i, folder := range sess.Folders.Get() {
		fmt.Printf("  %d. %s\n", i+1, folder.Name)
	}
}

func printNotes(sess *session.Session) {
	notes := sess.Notes.Get()
	if len(notes) == 0 {
		fmt.Println("  (no notes)")
		return
	}
	for i, note := range notes {
		fmt.Printf("  %d. %s\n", i+1, note.Title)
	}
}

// resolveFolder находит папку по индексу из printFolders или по имени.
// Индекс 0 и имя "Default" означают папку по умолчанию
func resolveFolder(sess *session.Session, arg string) (model.Folder, bool) {
	folders := sess.Folders.Get()

	if idx, err := strconv.Atoi(arg); err == nil {
		if idx == 0 {
			return defaultFolder(sess)
		}
		if idx >= 1 && idx <= len(folders) {
			return folders[idx-1], true
		}
		return model.Folder{}, false
	}

	if arg == model.DefaultFolderName {
		return defaultFolder(sess)
	}
	for _, folder := range folders {
		if folder.Name == arg {
			return folder, true
		}
	}
	return model.Folder{}, false
}

func defaultFolder(sess *session.Session) (model.Folder, bool) {
	id := sess.DefaultFolderID.Get()
	if id == "" {
		return model.Folder{}, false
	}
	return model.Folder{
		ID:      id,
		Name:    model.DefaultFolderName,
		OwnerID: sess.CurrentUserID.Get(),
	}, true
}

func resolveNote(sess *session.Session, arg string) (model.Note, bool) {
	notes := sess.Notes.Get()
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 1 || idx > len(notes) {
		return model.Note{}, false
	}
	return notes[idx-1], true
}
